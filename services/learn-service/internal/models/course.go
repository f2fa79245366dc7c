package models

// ModuleLessons is a course module together with the ids of all its lessons.
// A module without lessons has an empty, non-nil LessonIDs.
type ModuleLessons struct {
	ModuleID  int
	Title     string
	LessonIDs []int
}
