package model

import (
	"fmt"
	"strings"
	"time"
)

// EntityID is the backend-assigned identifier of a record. Opaque to the client.
type EntityID string

func (id EntityID) String() string { return string(id) }

// HomeTabTarget is the display surface a home tab is laid out for.
type HomeTabTarget string

const (
	HomeTabTargetBigScreen   HomeTabTarget = "big-screen"
	HomeTabTargetSmallScreen HomeTabTarget = "small-screen"
)

func AllHomeTabTargets() []HomeTabTarget {
	return []HomeTabTarget{HomeTabTargetBigScreen, HomeTabTargetSmallScreen}
}

func ParseHomeTabTarget(s string) (HomeTabTarget, error) {
	switch normalizeTag(s) {
	case string(HomeTabTargetBigScreen), "big":
		return HomeTabTargetBigScreen, nil
	case string(HomeTabTargetSmallScreen), "small":
		return HomeTabTargetSmallScreen, nil
	default:
		return "", fmt.Errorf("invalid home tab target: %q", s)
	}
}

type HomeConfig struct {
	RefID            EntityID                     `json:"ref_id" yaml:"ref_id"`
	Version          int                          `json:"version" yaml:"version"`
	Archived         bool                         `json:"archived" yaml:"archived"`
	OrderOfTabs      map[HomeTabTarget][]EntityID `json:"order_of_tabs" yaml:"order_of_tabs"`
	CreatedTime      time.Time                    `json:"created_time" yaml:"created_time"`
	LastModifiedTime time.Time                    `json:"last_modified_time" yaml:"last_modified_time"`
}

// OrderFor returns the order list for target, nil when none is stored.
func (c HomeConfig) OrderFor(target HomeTabTarget) []EntityID {
	if c.OrderOfTabs == nil {
		return nil
	}
	return c.OrderOfTabs[target]
}

// WidgetPlacement lays widgets out in columns, top to bottom.
// Small-screen tabs use a single column.
type WidgetPlacement struct {
	Columns [][]EntityID `json:"columns" yaml:"columns"`
}

// Clone returns a deep copy.
func (p WidgetPlacement) Clone() WidgetPlacement {
	out := WidgetPlacement{Columns: make([][]EntityID, len(p.Columns))}
	for i, col := range p.Columns {
		out.Columns[i] = append([]EntityID{}, col...)
	}
	return out
}

type HomeTab struct {
	RefID            EntityID        `json:"ref_id" yaml:"ref_id"`
	HomeConfigRefID  EntityID        `json:"home_config_ref_id" yaml:"home_config_ref_id"`
	Target           HomeTabTarget   `json:"target" yaml:"target"`
	Name             string          `json:"name" yaml:"name"`
	Icon             string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	WidgetPlacement  WidgetPlacement `json:"widget_placement" yaml:"widget_placement"`
	Archived         bool            `json:"archived" yaml:"archived"`
	CreatedTime      time.Time       `json:"created_time" yaml:"created_time"`
	LastModifiedTime time.Time       `json:"last_modified_time" yaml:"last_modified_time"`
}

type WidgetType string

const (
	WidgetTypeMOTD                 WidgetType = "motd"
	WidgetTypeWorkingMem           WidgetType = "working-mem"
	WidgetTypeKeyHabits            WidgetType = "key-habits"
	WidgetTypeKeyChores            WidgetType = "key-chores"
	WidgetTypeHabitInboxTasks      WidgetType = "habit-inbox-tasks"
	WidgetTypeChoreInboxTasks      WidgetType = "chore-inbox-tasks"
	WidgetTypeCalendarDay          WidgetType = "calendar-day"
	WidgetTypeScheduleDay          WidgetType = "schedule-day"
	WidgetTypeTimePlanView         WidgetType = "time-plan-view"
	WidgetTypeGamificationOverview WidgetType = "gamification-overview"
	WidgetTypeGamificationHistory  WidgetType = "gamification-history"
)

func AllWidgetTypes() []WidgetType {
	return []WidgetType{
		WidgetTypeMOTD,
		WidgetTypeWorkingMem,
		WidgetTypeKeyHabits,
		WidgetTypeKeyChores,
		WidgetTypeHabitInboxTasks,
		WidgetTypeChoreInboxTasks,
		WidgetTypeCalendarDay,
		WidgetTypeScheduleDay,
		WidgetTypeTimePlanView,
		WidgetTypeGamificationOverview,
		WidgetTypeGamificationHistory,
	}
}

type HomeWidget struct {
	RefID            EntityID   `json:"ref_id" yaml:"ref_id"`
	HomeTabRefID     EntityID   `json:"home_tab_ref_id" yaml:"home_tab_ref_id"`
	Name             string     `json:"name" yaml:"name"`
	Type             WidgetType `json:"the_type" yaml:"the_type"`
	Archived         bool       `json:"archived" yaml:"archived"`
	CreatedTime      time.Time  `json:"created_time" yaml:"created_time"`
	LastModifiedTime time.Time  `json:"last_modified_time" yaml:"last_modified_time"`
}

// NamedEntityTag identifies a kind of entity. It keys the entities-in-flux store.
type NamedEntityTag string

const (
	TagInboxTask      NamedEntityTag = "inbox-task"
	TagWorkingMem     NamedEntityTag = "working-mem"
	TagTimePlan       NamedEntityTag = "time-plan"
	TagScheduleStream NamedEntityTag = "schedule-stream"
	TagHabit          NamedEntityTag = "habit"
	TagChore          NamedEntityTag = "chore"
	TagBigPlan        NamedEntityTag = "big-plan"
	TagJournal        NamedEntityTag = "journal"
	TagDoc            NamedEntityTag = "doc"
	TagVacation       NamedEntityTag = "vacation"
	TagProject        NamedEntityTag = "project"
	TagSmartList      NamedEntityTag = "smart-list"
	TagMetric         NamedEntityTag = "metric"
	TagPerson         NamedEntityTag = "person"
	TagNote           NamedEntityTag = "note"
	TagHomeTab        NamedEntityTag = "home-tab"
	TagHomeWidget     NamedEntityTag = "home-widget"
)

func AllNamedEntityTags() []NamedEntityTag {
	return []NamedEntityTag{
		TagInboxTask,
		TagWorkingMem,
		TagTimePlan,
		TagScheduleStream,
		TagHabit,
		TagChore,
		TagBigPlan,
		TagJournal,
		TagDoc,
		TagVacation,
		TagProject,
		TagSmartList,
		TagMetric,
		TagPerson,
		TagNote,
		TagHomeTab,
		TagHomeWidget,
	}
}

type InboxTaskStatus string

const (
	InboxTaskStatusNotStarted    InboxTaskStatus = "not-started"
	InboxTaskStatusNotStartedGen InboxTaskStatus = "not-started-gen"
	InboxTaskStatusAccepted      InboxTaskStatus = "accepted"
	InboxTaskStatusRecurring     InboxTaskStatus = "recurring"
	InboxTaskStatusInProgress    InboxTaskStatus = "in-progress"
	InboxTaskStatusBlocked       InboxTaskStatus = "blocked"
	InboxTaskStatusNotDone       InboxTaskStatus = "not-done"
	InboxTaskStatusDone          InboxTaskStatus = "done"
)

func AllInboxTaskStatuses() []InboxTaskStatus {
	return []InboxTaskStatus{
		InboxTaskStatusNotStarted,
		InboxTaskStatusNotStartedGen,
		InboxTaskStatusAccepted,
		InboxTaskStatusRecurring,
		InboxTaskStatusInProgress,
		InboxTaskStatusBlocked,
		InboxTaskStatusNotDone,
		InboxTaskStatusDone,
	}
}

type BigPlanStatus string

const (
	BigPlanStatusNotStarted BigPlanStatus = "not-started"
	BigPlanStatusAccepted   BigPlanStatus = "accepted"
	BigPlanStatusInProgress BigPlanStatus = "in-progress"
	BigPlanStatusBlocked    BigPlanStatus = "blocked"
	BigPlanStatusNotDone    BigPlanStatus = "not-done"
	BigPlanStatusDone       BigPlanStatus = "done"
)

func AllBigPlanStatuses() []BigPlanStatus {
	return []BigPlanStatus{
		BigPlanStatusNotStarted,
		BigPlanStatusAccepted,
		BigPlanStatusInProgress,
		BigPlanStatusBlocked,
		BigPlanStatusNotDone,
		BigPlanStatusDone,
	}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

type Eisen string

const (
	EisenRegular            Eisen = "regular"
	EisenImportant          Eisen = "important"
	EisenUrgent             Eisen = "urgent"
	EisenImportantAndUrgent Eisen = "important-and-urgent"
)

func AllEisens() []Eisen {
	return []Eisen{EisenRegular, EisenImportant, EisenUrgent, EisenImportantAndUrgent}
}

// normalizeTag lowercases and folds "_" and spaces into "-", so that backend
// spellings (NOT_STARTED) and CLI spellings (not-started) compare equal.
func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// NormalizeTag exposes the tag folding used by the Parse* helpers.
func NormalizeTag(s string) string { return normalizeTag(s) }
