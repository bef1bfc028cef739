// Package platformtest provides an in-memory platform.Platform for tests.
package platformtest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/artemetr/discord-karaoke-bot/internal/platform"
)

var ErrInjected = errors.New("injected failure")

type Message struct {
	ChannelID string
	Text      string
}

type Direct struct {
	UserID string
	Text   string
}

type Mute struct {
	ChannelID string
	UserID    string
	Muted     bool
}

type Channel struct {
	ID         string
	GuildID    string
	ParentID   string
	Name       string
	Kind       platform.ChannelKind
	Overwrites []platform.Overwrite
}

type Role struct {
	ID      string
	GuildID string
	Name    string
}

// Fake records every side effect. Channels and roles are kept by ID and
// looked up by name, so the Ensure* calls are get-or-create.
type Fake struct {
	mu sync.Mutex

	Messages        []Message
	Directs         []Direct
	Mutes           []Mute
	DeletedChannels []string
	DeletedMessages []string
	RoleGrants      []string
	RoleRevokes     []string

	Channels map[string]*Channel
	Roles    map[string]*Role

	// Voice maps a user ID to the voice channel it is connected to.
	Voice map[string]string
	// Members maps guildID/userID to the IDs of the roles the member holds.
	Members map[string][]string
	// Fail makes the named operation return ErrInjected.
	Fail map[string]bool

	Created int
	nextID  int
}

func New() *Fake {
	return &Fake{
		Channels: make(map[string]*Channel),
		Roles:    make(map[string]*Role),
		Voice:    make(map[string]string),
		Members:  make(map[string][]string),
		Fail:     make(map[string]bool),
	}
}

func (f *Fake) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *Fake) fail(op string) error {
	if f.Fail[op] {
		return &platform.CallError{Op: op, Err: ErrInjected}
	}
	return nil
}

// AddDirectChannel registers a DM channel.
func (f *Fake) AddDirectChannel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Channels[id] = &Channel{ID: id, Kind: platform.KindDirect}
}

// AddTextChannel registers a pre-existing guild text channel.
func (f *Fake) AddTextChannel(guildID, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Channels[id] = &Channel{ID: id, GuildID: guildID, Name: name, Kind: platform.KindGuildText}
}

// JoinVoice connects userID to a voice channel; "" disconnects.
func (f *Fake) JoinVoice(userID, channelID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if channelID == "" {
		delete(f.Voice, userID)
		return
	}
	f.Voice[userID] = channelID
}

// GrantRole gives userID the role with the given ID.
func (f *Fake) GrantRole(guildID, userID, roleID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := guildID + "/" + userID
	if !slices.Contains(f.Members[key], roleID) {
		f.Members[key] = append(f.Members[key], roleID)
	}
}

// ChannelByName returns the first channel with name in guildID.
func (f *Fake) ChannelByName(guildID, name string) (*Channel, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channelByName(guildID, name, platform.KindUnknown)
}

func (f *Fake) channelByName(guildID, name string, kind platform.ChannelKind) (*Channel, bool) {
	for _, c := range f.Channels {
		if c.GuildID == guildID && c.Name == name && (kind == platform.KindUnknown || c.Kind == kind) {
			return c, true
		}
	}
	return nil, false
}

// MessagesTo returns the texts sent to channelID in order.
func (f *Fake) MessagesTo(channelID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.Messages {
		if m.ChannelID == channelID {
			out = append(out, m.Text)
		}
	}
	return out
}

// DirectsTo returns the texts sent to userID in order.
func (f *Fake) DirectsTo(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, d := range f.Directs {
		if d.UserID == userID {
			out = append(out, d.Text)
		}
	}
	return out
}

func (f *Fake) SendMessage(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("send_message"); err != nil {
		return err
	}
	f.Messages = append(f.Messages, Message{ChannelID: channelID, Text: text})
	return nil
}

func (f *Fake) SendDirect(_ context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("send_direct"); err != nil {
		return err
	}
	f.Directs = append(f.Directs, Direct{UserID: userID, Text: text})
	return nil
}

func (f *Fake) SetMute(_ context.Context, channelID, userID string, muted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("set_mute"); err != nil {
		return err
	}
	f.Mutes = append(f.Mutes, Mute{ChannelID: channelID, UserID: userID, Muted: muted})
	return nil
}

func (f *Fake) EnsureRole(_ context.Context, guildID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ensure_role"); err != nil {
		return "", err
	}
	for _, r := range f.Roles {
		if r.GuildID == guildID && r.Name == name {
			return r.ID, nil
		}
	}
	r := &Role{ID: f.id("role"), GuildID: guildID, Name: name}
	f.Roles[r.ID] = r
	f.Created++
	return r.ID, nil
}

func (f *Fake) ensureChannel(op, guildID, parentID, name string, kind platform.ChannelKind, ow []platform.Overwrite) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(op); err != nil {
		return "", err
	}
	if c, ok := f.channelByName(guildID, name, kind); ok {
		return c.ID, nil
	}
	c := &Channel{ID: f.id("chan"), GuildID: guildID, ParentID: parentID, Name: name, Kind: kind, Overwrites: ow}
	f.Channels[c.ID] = c
	f.Created++
	return c.ID, nil
}

func (f *Fake) EnsureCategory(_ context.Context, guildID, name string, ow []platform.Overwrite) (string, error) {
	return f.ensureChannel("ensure_category", guildID, "", name, platform.KindCategory, ow)
}

func (f *Fake) EnsureTextChannel(_ context.Context, guildID, parentID, name string, ow []platform.Overwrite) (string, error) {
	return f.ensureChannel("ensure_text_channel", guildID, parentID, name, platform.KindGuildText, ow)
}

func (f *Fake) EnsureVoiceChannel(_ context.Context, guildID, parentID, name string, ow []platform.Overwrite) (string, error) {
	return f.ensureChannel("ensure_voice_channel", guildID, parentID, name, platform.KindGuildVoice, ow)
}

func (f *Fake) FindChannel(_ context.Context, guildID, name string, kind platform.ChannelKind) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("find_channel"); err != nil {
		return "", false, err
	}
	c, ok := f.channelByName(guildID, name, kind)
	if !ok {
		return "", false, nil
	}
	return c.ID, true, nil
}

func (f *Fake) DeleteChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("delete_channel"); err != nil {
		return err
	}
	delete(f.Channels, channelID)
	f.DeletedChannels = append(f.DeletedChannels, channelID)
	return nil
}

func (f *Fake) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("delete_message"); err != nil {
		return err
	}
	f.DeletedMessages = append(f.DeletedMessages, channelID+"/"+messageID)
	return nil
}

func (f *Fake) AddRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("add_role"); err != nil {
		return err
	}
	key := guildID + "/" + userID
	if !slices.Contains(f.Members[key], roleID) {
		f.Members[key] = append(f.Members[key], roleID)
	}
	f.RoleGrants = append(f.RoleGrants, userID+":"+roleID)
	return nil
}

func (f *Fake) RemoveRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("remove_role"); err != nil {
		return err
	}
	key := guildID + "/" + userID
	f.Members[key] = slices.DeleteFunc(f.Members[key], func(id string) bool { return id == roleID })
	f.RoleRevokes = append(f.RoleRevokes, userID+":"+roleID)
	return nil
}

func (f *Fake) IsMemberInChannel(_ context.Context, userID, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("is_member_in_channel"); err != nil {
		return false, err
	}
	return channelID != "" && f.Voice[userID] == channelID, nil
}

func (f *Fake) CallerHasRole(_ context.Context, guildID, userID, roleName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("caller_has_role"); err != nil {
		return false, err
	}
	for _, id := range f.Members[guildID+"/"+userID] {
		if r, ok := f.Roles[id]; ok && r.Name == roleName {
			return true, nil
		}
	}
	return false, nil
}

func (f *Fake) ChannelKind(_ context.Context, channelID string) (platform.ChannelKind, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("channel_kind"); err != nil {
		return platform.KindUnknown, err
	}
	c, ok := f.Channels[channelID]
	if !ok {
		return platform.KindUnknown, nil
	}
	return c.Kind, nil
}

func (f *Fake) Mention(userID string) string { return "@" + userID }

func (f *Fake) ChannelMention(channelID string) string { return "#" + channelID }
