package models

// CompletedLesson is a completed progress record joined with its lesson's vocabulary
type CompletedLesson struct {
	LessonID   int
	Vocabulary Vocabulary
}
