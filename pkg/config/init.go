package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# docroots Configuration File
#
# Each root exposes one directory as a document tree. Documents are
# addressed as "<tag>:<path/inside/root>", so tags must not contain ':'.
#
# Environment variables override file values, e.g.
#   DOCROOTS_LOGGING_LEVEL=DEBUG
#   DOCROOTS_JOURNAL_TYPE=badger

`

// sectionComments are attached above each top-level key of the sample file.
var sectionComments = map[string]string{
	"logging":  "Logging: level (DEBUG, INFO, WARN, ERROR), format (text, json), output (stdout, stderr, file path)",
	"roots":    "Roots: tag, absolute path (\"~\" allowed), optional title and icon, read_only",
	"provider": "Provider: propagate_close_errors returns write close failures to callers;\nmtime_threshold hides modification times within this duration after the epoch",
	"journal":  "Journal: where write completions are recorded (memory, badger, none)",
}

// InitConfig writes a sample configuration file to the default location.
//
// Returns the path written. Fails if the file exists and force is false.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration file to path, creating
// parent directories as needed.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use force to overwrite)", path)
		}
	}

	content, err := generateYAMLWithComments(GetSampleConfig())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateYAMLWithComments renders cfg as YAML with a header and a comment
// above every top-level section.
func generateYAMLWithComments(cfg *Config) (string, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if doc.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Content); i += 2 {
			key := doc.Content[i]
			if comment, ok := sectionComments[key.Value]; ok {
				key.HeadComment = comment
			}
		}
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	return configHeader + string(out), nil
}
