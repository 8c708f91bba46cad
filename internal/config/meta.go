package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings.
// It stays in sync when new fields are added to Settings.
func GetSettingsExample() map[string]any {
	t := reflect.TypeOf(Settings{})
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue creates example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		switch t.Elem().Kind() {
		case reflect.Bool:
			return fieldName == "codex_integration_enabled"
		case reflect.Int:
			switch fieldName {
			case "archive_retention_days":
				return DefaultArchiveRetentionDays
			case "max_log_files":
				return 1000
			case "max_session_files":
				return DefaultMaxSessionFiles
			case "preview_length":
				return 200
			}
			return 10
		}
	}

	switch t.Kind() {
	case reflect.String:
		if fieldName == "archive_directory" {
			return "~/.agentplans/archive"
		}
		return "example"
	case reflect.Slice:
		switch fieldName {
		case "plan_directories":
			return []string{DefaultPlanDirectory, "~/notes/plans"}
		case "codex_session_directories":
			return []string{DefaultSessionDirectory}
		case "status_colors":
			return []string{"245", "33", "214", "46"}
		case "statuses":
			return []string{"todo", "in_progress", "review", "completed"}
		default:
			return []string{"example1", "example2"}
		}
	}

	return nil
}
