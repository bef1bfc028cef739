package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "KARAOKE_"

// CommandKey names a configurable command.
type CommandKey string

const (
	AddMeToQueue       CommandKey = "add_me_to_queue"
	RemoveMeFromQueue  CommandKey = "remove_me_from_queue"
	ShowQueueOfArtists CommandKey = "show_queue_of_artists"
	ShowLogOfArtists   CommandKey = "show_log_of_artists"
	StartPerformance   CommandKey = "start_performance"
	FinishPerformance  CommandKey = "finish_performance"
	SkipPerformance    CommandKey = "skip_performance"
	PopFromQueue       CommandKey = "pop_from_queue"
	Stop               CommandKey = "stop"
	Start              CommandKey = "start"
	ShowCommandHistory CommandKey = "show_command_history"
)

var defaultCommands = map[CommandKey]string{
	AddMeToQueue:       "append",
	RemoveMeFromQueue:  "remove",
	ShowQueueOfArtists: "list",
	ShowLogOfArtists:   "log",
	StartPerformance:   "begin",
	FinishPerformance:  "finish",
	SkipPerformance:    "skip",
	PopFromQueue:       "pop",
	Stop:               "stop",
	Start:              "start",
	ShowCommandHistory: "history",
}

type Named struct {
	Name string `koanf:"name"`
}

type Guild struct {
	ID       string   `koanf:"id"`
	Category Category `koanf:"category"`
}

type Category struct {
	Name     string   `koanf:"name"`
	Channels Channels `koanf:"channels"`
}

type Channels struct {
	Text  Named `koanf:"text"`
	Voice Named `koanf:"voice"`
}

type Roles struct {
	Admin  Named `koanf:"admin"`
	Member Named `koanf:"member"`
}

// Event is the configuration of one karaoke event: where it runs, what its
// channels and roles are called, how commands are named and what the bot says.
type Event struct {
	Guild         Guild             `koanf:"guild"`
	Roles         Roles             `koanf:"roles"`
	CommandPrefix string            `koanf:"command_prefix"`
	Commands      map[string]string `koanf:"commands"`
	Responses     Responses         `koanf:"responses"`
}

// DefaultEvent returns an event configuration with every name set.
func DefaultEvent() *Event {
	return &Event{
		Guild: Guild{
			Category: Category{
				Name: "karaoke",
				Channels: Channels{
					Text:  Named{Name: "karaoke-chat"},
					Voice: Named{Name: "Karaoke"},
				},
			},
		},
		Roles: Roles{
			Admin:  Named{Name: "karaoke-admin"},
			Member: Named{Name: "karaoke-member"},
		},
		CommandPrefix: "?",
		Commands:      map[string]string{},
		Responses:     Responses{},
	}
}

// Command returns the configured name of the command.
func (e *Event) Command(key CommandKey) string {
	if name, ok := e.Commands[string(key)]; ok && name != "" {
		return name
	}
	return defaultCommands[key]
}

// CommandKeys lists every configurable command.
func CommandKeys() []CommandKey {
	keys := make([]CommandKey, 0, len(defaultCommands))
	for k := range defaultCommands {
		keys = append(keys, k)
	}
	return keys
}

var ErrNoGuild = errors.New("guild.id must be set")

// LoadEvent layers defaults, the optional file at path and KARAOKE_*
// environment variables. Nested keys are separated by "__" in variable
// names, e.g. KARAOKE_GUILD__ID or KARAOKE_RESPONSES__LOG_EMPTY.
// The YAML parser also reads the JSON layout of config.json.
func LoadEvent(path string) (*Event, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := DefaultEvent()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode event config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e *Event) validate() error {
	if e.Guild.ID == "" {
		return ErrNoGuild
	}
	if e.CommandPrefix == "" {
		return errors.New("command_prefix must not be empty")
	}
	names := make(map[string]CommandKey)
	for _, key := range CommandKeys() {
		name := e.Command(key)
		if other, dup := names[name]; dup {
			return fmt.Errorf("commands %s and %s share the name %q", other, key, name)
		}
		names[name] = key
	}
	return nil
}
