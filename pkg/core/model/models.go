package model

import (
	"strings"
	"time"
)

// WowClass is one of the nine playable classes.
type WowClass string

const (
	Warrior WowClass = "WARRIOR"
	Paladin WowClass = "PALADIN"
	Hunter  WowClass = "HUNTER"
	Rogue   WowClass = "ROGUE"
	Priest  WowClass = "PRIEST"
	Shaman  WowClass = "SHAMAN"
	Mage    WowClass = "MAGE"
	Warlock WowClass = "WARLOCK"
	Druid   WowClass = "DRUID"
)

// AllClasses lists every class in a fixed order, used wherever output
// must be deterministic (summaries, available-CC listings).
var AllClasses = []WowClass{
	Warrior, Paladin, Hunter, Rogue, Priest, Shaman, Mage, Warlock, Druid,
}

func (c WowClass) IsValid() bool {
	for _, cls := range AllClasses {
		if c == cls {
			return true
		}
	}
	return false
}

// RaidRole is the signup's role bucket. "dps" is the catch-all when the
// source role group is neither melee nor ranged.
type RaidRole string

const (
	RoleTank   RaidRole = "tank"
	RoleHealer RaidRole = "healer"
	RoleMelee  RaidRole = "mdps"
	RoleRanged RaidRole = "rdps"
	RoleDPS    RaidRole = "dps"
)

// SignupStatus mirrors the Raid-Helper signup status tags.
type SignupStatus string

const (
	StatusConfirmed SignupStatus = "confirmed"
	StatusTentative SignupStatus = "tentative"
	StatusBench     SignupStatus = "bench"
	StatusLate      SignupStatus = "late"
	StatusAbsence   SignupStatus = "absence"
)

// CCType identifies a crowd-control ability.
type CCType string

const (
	Polymorph    CCType = "polymorph"
	Banish       CCType = "banish"
	Fear         CCType = "fear"
	Seduce       CCType = "seduce"
	Shackle      CCType = "shackle"
	MindControl  CCType = "mindcontrol"
	Hibernate    CCType = "hibernate"
	Cyclone      CCType = "cyclone"
	Sap          CCType = "sap"
	FreezingTrap CCType = "freezingtrap"
	Wyvern       CCType = "wyvern"
	TurnUndead   CCType = "turnundead"
	Repentance   CCType = "repentance"
)

// RaidMarker is one of the eight in-game target markers (1=Star .. 8=Skull).
type RaidMarker int

var markerNames = [8]string{
	"Star", "Circle", "Diamond", "Triangle", "Moon", "Square", "Cross", "Skull",
}

// Name returns the marker's display name, or "" for out-of-range values.
func (m RaidMarker) Name() string {
	if m < 1 || m > 8 {
		return ""
	}
	return markerNames[m-1]
}

// RaidSignup is one normalized signup. Position and GroupNumber are
// 1-indexed hints from the source; zero means absent.
type RaidSignup struct {
	DiscordID    string       `json:"discordId"`
	DiscordName  string       `json:"discordName"`
	WowCharacter string       `json:"wowCharacter,omitempty"`
	Class        WowClass     `json:"class"`
	Role         RaidRole     `json:"role"`
	Spec         string       `json:"spec,omitempty"`
	Position     int          `json:"position,omitempty"`
	GroupNumber  int          `json:"groupNumber,omitempty"`
	SignupTime   time.Time    `json:"signupTime"`
	Status       SignupStatus `json:"status"`
}

// PlayerName returns the in-game character name when set, falling back
// to the Discord display name.
func (s RaidSignup) PlayerName() string {
	if name := strings.TrimSpace(s.WowCharacter); name != "" {
		return name
	}
	return s.DiscordName
}

// RaidEvent is a fetched event with its normalized signups. Excluded
// signups (absence, bench tags and unmappable classes) never appear here.
type RaidEvent struct {
	EventID     string       `json:"eventId"`
	ServerID    string       `json:"serverId"`
	ChannelID   string       `json:"channelId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     time.Time    `json:"endTime,omitzero"`
	Signups     []RaidSignup `json:"signups"`
	CreatedBy   string       `json:"createdBy"`
}

// CCAssignmentEntry assigns one player to perform one CC ability.
type CCAssignmentEntry struct {
	CCType     CCType `json:"ccType"`
	PlayerName string `json:"playerName"`
}

// CCAssignment holds the ordered entries for one raid marker. The first
// entry is the primary assignment; later entries are fallbacks.
type CCAssignment struct {
	Marker  RaidMarker          `json:"marker"`
	Entries []CCAssignmentEntry `json:"assignments"`
}

// GroupAssignment is one raid group. Five players is a soft cap:
// overfull groups are representable and flagged by consumers, never
// rejected here.
type GroupAssignment struct {
	GroupNumber int      `json:"groupNumber"`
	Label       string   `json:"label"`
	Players     []string `json:"players"`
}

// CCRulePriority is one preference step inside a CC rule.
type CCRulePriority struct {
	CCType     CCType `json:"ccType"`
	ClassOrder int    `json:"classOrder"`
}

// CCRule maps a raid marker to an ordered CC-type preference list.
type CCRule struct {
	Marker   RaidMarker       `json:"marker"`
	Priority []CCRulePriority `json:"priority"`
}

// CCTemplate is a raw, unresolved CC rule set carried in the payload
// when resolution is deferred to the addon.
type CCTemplate struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Rules       []CCRule `json:"rules"`
}

// GroupTemplate drives the template mode of the group solver. The
// preference lists are always on the wire, empty or not.
type GroupTemplate struct {
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	PriorityBuffs    []string   `json:"priorityBuffs"`
	PreferredClasses []WowClass `json:"preferredClasses"`
	PreferredRoles   []RaidRole `json:"preferredRoles"`
}

// StoredGroup is one saved group inside a stored template.
type StoredGroup struct {
	Label   string   `json:"label"`
	Players []string `json:"players"`
}

// StoredGroupTemplate is a persisted group layout, keyed by name.
type StoredGroupTemplate struct {
	Name   string        `json:"name"`
	Groups []StoredGroup `json:"groups"`
}

// PlayerInfo is the addon-facing projection of a signup.
type PlayerInfo struct {
	Name  string   `json:"name"`
	Class WowClass `json:"class"`
	Role  RaidRole `json:"role"`
	Spec  string   `json:"spec,omitempty"`
}

// PayloadVersion is the current import payload format version.
const PayloadVersion = 1

// ImportPayload is the exportable snapshot the addon ingests. Resolved
// assignments and raw templates are mutually exclusive per field. The
// optional fields use omitzero, not omitempty: an empty-but-present
// slice must survive the encode/decode round trip as [], only absent
// (nil) fields are dropped.
type ImportPayload struct {
	Version           int               `json:"version"`
	EventID           string            `json:"eventId"`
	EventName         string            `json:"eventName"`
	EventTime         int64             `json:"eventTime"`
	Players           []PlayerInfo      `json:"players"`
	CCTemplate        *CCTemplate       `json:"ccTemplate,omitempty"`
	GroupTemplates    []GroupTemplate   `json:"groupTemplates,omitzero"`
	CCAssignments     []CCAssignment    `json:"ccAssignments,omitzero"`
	GroupAssignments  []GroupAssignment `json:"groupAssignments,omitzero"`
	CharacterMappings map[string]string `json:"characterMappings,omitzero"`
}

// ShareGroup is one group in the compact share payload.
type ShareGroup struct {
	Label   string   `json:"l"`
	Players []string `json:"p"`
}

// SharePayload is the minimal link-sharing snapshot: group layout plus
// buff override keys, nothing else.
type SharePayload struct {
	EventID       string       `json:"e"`
	Groups        []ShareGroup `json:"g"`
	BuffOverrides []string     `json:"b,omitempty"`
}
