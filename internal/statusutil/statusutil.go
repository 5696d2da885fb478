package statusutil

import (
	"fmt"

	"jupiter-cli/internal/model"
)

// Every switch below covers the full enum. The All* enumerators in model are
// what the tests walk, so a new variant without a mapping fails there.

func InboxTaskStatusName(s model.InboxTaskStatus) string {
	switch s {
	case model.InboxTaskStatusNotStarted:
		return "Not Started"
	case model.InboxTaskStatusNotStartedGen:
		return "Not Started (Gen)"
	case model.InboxTaskStatusAccepted:
		return "Accepted"
	case model.InboxTaskStatusRecurring:
		return "Recurring"
	case model.InboxTaskStatusInProgress:
		return "In Progress"
	case model.InboxTaskStatusBlocked:
		return "Blocked"
	case model.InboxTaskStatusNotDone:
		return "Not Done"
	case model.InboxTaskStatusDone:
		return "Done"
	}
	return unknown(s)
}

// InboxTaskStatusRank orders statuses for display: open work first, finished work last.
// Unknown statuses rank after everything.
func InboxTaskStatusRank(s model.InboxTaskStatus) int {
	switch s {
	case model.InboxTaskStatusNotStartedGen:
		return 0
	case model.InboxTaskStatusNotStarted:
		return 1
	case model.InboxTaskStatusAccepted:
		return 2
	case model.InboxTaskStatusRecurring:
		return 3
	case model.InboxTaskStatusInProgress:
		return 4
	case model.InboxTaskStatusBlocked:
		return 5
	case model.InboxTaskStatusNotDone:
		return 6
	case model.InboxTaskStatusDone:
		return 7
	}
	return 100
}

func CompareInboxTaskStatus(a, b model.InboxTaskStatus) int {
	return InboxTaskStatusRank(a) - InboxTaskStatusRank(b)
}

// InboxTaskStatusColor returns an ANSI-256 color code suitable for lipgloss.Color.
func InboxTaskStatusColor(s model.InboxTaskStatus) string {
	switch s {
	case model.InboxTaskStatusNotStarted, model.InboxTaskStatusNotStartedGen:
		return "245"
	case model.InboxTaskStatusAccepted, model.InboxTaskStatusRecurring:
		return "39"
	case model.InboxTaskStatusInProgress:
		return "214"
	case model.InboxTaskStatusBlocked:
		return "160"
	case model.InboxTaskStatusNotDone:
		return "131"
	case model.InboxTaskStatusDone:
		return "70"
	}
	return "245"
}

func InboxTaskStatusIsCompleted(s model.InboxTaskStatus) bool {
	switch s {
	case model.InboxTaskStatusNotDone, model.InboxTaskStatusDone:
		return true
	case model.InboxTaskStatusNotStarted,
		model.InboxTaskStatusNotStartedGen,
		model.InboxTaskStatusAccepted,
		model.InboxTaskStatusRecurring,
		model.InboxTaskStatusInProgress,
		model.InboxTaskStatusBlocked:
		return false
	}
	return false
}

func ParseInboxTaskStatus(s string) (model.InboxTaskStatus, error) {
	n := model.NormalizeTag(s)
	for _, st := range model.AllInboxTaskStatuses() {
		if string(st) == n {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid inbox task status: %q", s)
}

func BigPlanStatusName(s model.BigPlanStatus) string {
	switch s {
	case model.BigPlanStatusNotStarted:
		return "Not Started"
	case model.BigPlanStatusAccepted:
		return "Accepted"
	case model.BigPlanStatusInProgress:
		return "In Progress"
	case model.BigPlanStatusBlocked:
		return "Blocked"
	case model.BigPlanStatusNotDone:
		return "Not Done"
	case model.BigPlanStatusDone:
		return "Done"
	}
	return unknown(s)
}

func BigPlanStatusRank(s model.BigPlanStatus) int {
	switch s {
	case model.BigPlanStatusNotStarted:
		return 0
	case model.BigPlanStatusAccepted:
		return 1
	case model.BigPlanStatusInProgress:
		return 2
	case model.BigPlanStatusBlocked:
		return 3
	case model.BigPlanStatusNotDone:
		return 4
	case model.BigPlanStatusDone:
		return 5
	}
	return 100
}

func BigPlanStatusIsCompleted(s model.BigPlanStatus) bool {
	return s == model.BigPlanStatusDone || s == model.BigPlanStatusNotDone
}

func ParseBigPlanStatus(s string) (model.BigPlanStatus, error) {
	n := model.NormalizeTag(s)
	for _, st := range model.AllBigPlanStatuses() {
		if string(st) == n {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid big plan status: %q", s)
}

func DifficultyName(d model.Difficulty) string {
	switch d {
	case model.DifficultyEasy:
		return "Easy"
	case model.DifficultyMedium:
		return "Medium"
	case model.DifficultyHard:
		return "Hard"
	}
	return unknown(d)
}

func ParseDifficulty(s string) (model.Difficulty, error) {
	n := model.NormalizeTag(s)
	for _, d := range model.AllDifficulties() {
		if string(d) == n {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid difficulty: %q", s)
}

func EisenName(e model.Eisen) string {
	switch e {
	case model.EisenRegular:
		return "Regular"
	case model.EisenImportant:
		return "Important"
	case model.EisenUrgent:
		return "Urgent"
	case model.EisenImportantAndUrgent:
		return "Important & Urgent"
	}
	return unknown(e)
}

func EisenColor(e model.Eisen) string {
	switch e {
	case model.EisenRegular:
		return "245"
	case model.EisenImportant:
		return "33"
	case model.EisenUrgent:
		return "208"
	case model.EisenImportantAndUrgent:
		return "196"
	}
	return "245"
}

func ParseEisen(s string) (model.Eisen, error) {
	n := model.NormalizeTag(s)
	for _, e := range model.AllEisens() {
		if string(e) == n {
			return e, nil
		}
	}
	return "", fmt.Errorf("invalid eisenhower value: %q", s)
}

func EntityTagName(t model.NamedEntityTag) string {
	switch t {
	case model.TagInboxTask:
		return "Inbox Task"
	case model.TagWorkingMem:
		return "Working Mem"
	case model.TagTimePlan:
		return "Time Plan"
	case model.TagScheduleStream:
		return "Schedule Stream"
	case model.TagHabit:
		return "Habit"
	case model.TagChore:
		return "Chore"
	case model.TagBigPlan:
		return "Big Plan"
	case model.TagJournal:
		return "Journal"
	case model.TagDoc:
		return "Doc"
	case model.TagVacation:
		return "Vacation"
	case model.TagProject:
		return "Project"
	case model.TagSmartList:
		return "Smart List"
	case model.TagMetric:
		return "Metric"
	case model.TagPerson:
		return "Person"
	case model.TagNote:
		return "Note"
	case model.TagHomeTab:
		return "Home Tab"
	case model.TagHomeWidget:
		return "Home Widget"
	}
	return unknown(t)
}

func EntityTagIcon(t model.NamedEntityTag) string {
	switch t {
	case model.TagInboxTask:
		return "📥"
	case model.TagWorkingMem:
		return "🧠"
	case model.TagTimePlan:
		return "🏭"
	case model.TagScheduleStream:
		return "📅"
	case model.TagHabit:
		return "💪"
	case model.TagChore:
		return "♻️"
	case model.TagBigPlan:
		return "🌍"
	case model.TagJournal:
		return "📓"
	case model.TagDoc:
		return "📄"
	case model.TagVacation:
		return "🌴"
	case model.TagProject:
		return "💡"
	case model.TagSmartList:
		return "🏛️"
	case model.TagMetric:
		return "📈"
	case model.TagPerson:
		return "👨"
	case model.TagNote:
		return "📝"
	case model.TagHomeTab:
		return "🏠"
	case model.TagHomeWidget:
		return "🧩"
	}
	return "?"
}

func ParseEntityTag(s string) (model.NamedEntityTag, error) {
	n := model.NormalizeTag(s)
	for _, t := range model.AllNamedEntityTags() {
		if string(t) == n {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid entity tag: %q", s)
}

func WidgetTypeName(w model.WidgetType) string {
	switch w {
	case model.WidgetTypeMOTD:
		return "Message Of The Day"
	case model.WidgetTypeWorkingMem:
		return "Working Mem"
	case model.WidgetTypeKeyHabits:
		return "Key Habits"
	case model.WidgetTypeKeyChores:
		return "Key Chores"
	case model.WidgetTypeHabitInboxTasks:
		return "Habit Inbox Tasks"
	case model.WidgetTypeChoreInboxTasks:
		return "Chore Inbox Tasks"
	case model.WidgetTypeCalendarDay:
		return "Calendar Day"
	case model.WidgetTypeScheduleDay:
		return "Schedule Day"
	case model.WidgetTypeTimePlanView:
		return "Time Plan View"
	case model.WidgetTypeGamificationOverview:
		return "Gamification Overview"
	case model.WidgetTypeGamificationHistory:
		return "Gamification History"
	}
	return unknown(w)
}

func HomeTabTargetName(t model.HomeTabTarget) string {
	switch t {
	case model.HomeTabTargetBigScreen:
		return "Big Screen"
	case model.HomeTabTargetSmallScreen:
		return "Small Screen"
	}
	return unknown(t)
}

func unknown[T ~string](v T) string {
	return fmt.Sprintf("Unknown (%s)", string(v))
}
