package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/studyrag/core"
)

// Chapter notes step names.
const (
	stepGenerateNotes = "generate-chapter-notes"
	stepMarkReady     = "mark-ready"
)

const notesPromptTemplate = `Generate detailed exam preparation content for the given course chapter. Cover every topic point of the chapter in depth. Return the content as HTML fragments only (no html, head, body, or title tags).

Chapter:
%s`

// RunGenerateNotes generates study notes for every chapter of a course
// concurrently, then marks the course ready. The fan-out is fail-fast: any
// chapter failure aborts the job and marks the course errored, leaving
// already-inserted chapter notes in place for the resumed run to overwrite.
func (r *Runner) RunGenerateNotes(ctx context.Context, trigger *GenerateChapterNotesTrigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}

	course := trigger.Course
	jobID := trigger.JobID()
	logger := r.logger.With("job_id", jobID, "course_id", course.Id)
	logger.Info("starting chapter notes generation", "chapters", len(course.Chapters))

	_, err := runStep(ctx, r, jobID, stepGenerateNotes, func() (string, error) {
		if genErr := r.generateAllChapterNotes(ctx, course, logger); genErr != nil {
			return "", genErr
		}
		return "completed", nil
	})
	if err != nil {
		if statusErr := r.courses.SetCourseStatus(ctx, course.Id, core.CourseStatusError); statusErr != nil {
			logger.Error("failed to mark course errored", "err", statusErr)
		}
		return err
	}

	_, err = runStep(ctx, r, jobID, stepMarkReady, func() (string, error) {
		if statusErr := r.courses.SetCourseStatus(ctx, course.Id, core.CourseStatusReady); statusErr != nil {
			return "", statusErr
		}
		return "ok", nil
	})
	if err != nil {
		return err
	}

	logger.Info("chapter notes generation complete")
	return nil
}

// generateAllChapterNotes fans one generation task per chapter out onto the
// pool and waits for all of them. The first error wins; remaining chapters
// still finish their in-flight call but their failures are not collected.
func (r *Runner) generateAllChapterNotes(ctx context.Context, course *core.Course, logger *slog.Logger) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, chapter := range course.Chapters {
		chapterID := i + 1 // chapters are 1-based
		chapter := chapter

		wg.Add(1)
		task := func() {
			defer wg.Done()

			if err := r.generateChapterNote(ctx, course.Id, chapterID, chapter); err != nil {
				logger.Error("chapter notes generation failed", "chapter_id", chapterID, "err", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("chapter %d: %w", chapterID, err)
				}
				mu.Unlock()
				return
			}
			logger.Debug("chapter notes saved", "chapter_id", chapterID)
		}

		if err := r.fanoutPool.Submit(task); err != nil {
			// Pool rejected the task; run it inline so the WaitGroup balances
			task()
		}
	}

	wg.Wait()
	return firstErr
}

func (r *Runner) generateChapterNote(ctx context.Context, courseID core.ID, chapterID int, chapter core.Chapter) error {
	encoded, err := json.Marshal(chapter)
	if err != nil {
		return err
	}

	notes, err := r.generator.Generate(ctx, fmt.Sprintf(notesPromptTemplate, encoded))
	if err != nil {
		return err
	}

	return r.courses.AddChapterNote(ctx, &core.ChapterNote{
		CourseId:  courseID,
		ChapterId: chapterID,
		Notes:     notes,
	})
}
