package event

import (
	"strconv"
	"strings"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/queue"
)

func (e *Event) describe(index int, p queue.Performer, comment string) string {
	r := e.cfg.Responses
	c := ""
	if comment != "" {
		c = r.Format(config.ListItemComment, "comment", comment)
	}
	return r.Format(config.ListItem,
		"index", strconv.Itoa(index),
		"user", e.platform.Mention(string(p)),
		"comment", c,
	)
}

// renderQueue lists the queue 1-indexed; an empty queue renders the "empty"
// template of the audience.
func (e *Event) renderQueue(audience Audience) string {
	entries := e.session.Entries()
	if len(entries) == 0 {
		if audience == AudienceGuild {
			return e.cfg.Responses.Get(config.QueueIsEmptyForGuild)
		}
		return e.cfg.Responses.Get(config.QueueIsEmptyForUser)
	}
	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		lines = append(lines, e.describe(i+1, entry.Performer, entry.Comment))
	}
	return strings.Join(lines, e.cfg.Responses.Get(config.ListDelimiter))
}

func (e *Event) renderLog() string {
	history := e.session.History()
	if len(history) == 0 {
		return e.cfg.Responses.Get(config.LogEmpty)
	}
	lines := make([]string, 0, len(history))
	for i, entry := range history {
		lines = append(lines, e.describe(i+1, entry.Performer, entry.Comment))
	}
	return strings.Join(lines, e.cfg.Responses.Get(config.ListDelimiter))
}

// performerArgs are the placeholders of the announcements about one performer.
func (e *Event) performerArgs(entry queue.Entry, commentKey config.ResponseKey) []string {
	c := ""
	if entry.Comment != "" {
		c = e.cfg.Responses.Format(commentKey, "comment", entry.Comment)
	}
	return []string{"user", e.platform.Mention(string(entry.Performer)), "comment", c}
}
