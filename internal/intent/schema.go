package intent

// intentJSONSchema validates the LLM's extraction output before it is
// trusted. Keeps prompt drift from silently producing malformed intents.
const intentJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "CommuteIntent",
  "type": "object",
  "required": ["topic", "level", "commute_minutes"],
  "additionalProperties": true,
  "properties": {
    "topic": {
      "type": "string",
      "minLength": 1
    },
    "level": {
      "type": "string",
      "enum": ["beginner", "intermediate", "advanced"]
    },
    "commute_minutes": {
      "type": "integer",
      "minimum": 2,
      "maximum": 360
    }
  }
}`
