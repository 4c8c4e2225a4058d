package jobs

import (
	"context"
	"fmt"

	"github.com/poiesic/studyrag/core"
)

// Study content step names.
const (
	stepGenerateContent = "generate"
	stepSaveContent     = "save"
)

// RunGenerateStudyContent generates one derived study content record
// (flashcards, quiz, or Q&A) from the trigger's prompt and persists it.
// An unsupported study type is fatal and never retried. The generated
// content is itself the required payload, so generation failure marks the
// record errored instead of degrading to a placeholder.
func (r *Runner) RunGenerateStudyContent(ctx context.Context, trigger *GenerateStudyContentTrigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}

	jobID := trigger.JobID()
	logger := r.logger.With("job_id", jobID, "record_id", trigger.RecordID, "study_type", trigger.StudyType)
	logger.Info("starting study content generation", "course_id", trigger.CourseID)

	if err := r.runStudyContentSteps(ctx, jobID, trigger); err != nil {
		if record, getErr := r.courses.GetStudyRecord(ctx, trigger.RecordID); getErr == nil {
			record.Status = core.CourseStatusError
			if putErr := r.courses.PutStudyRecord(ctx, record); putErr != nil {
				logger.Error("failed to mark study record errored", "err", putErr)
			}
		}
		return err
	}

	logger.Info("study content generation complete")
	return nil
}

func (r *Runner) runStudyContentSteps(ctx context.Context, jobID core.ID, trigger *GenerateStudyContentTrigger) error {
	content, err := runStep(ctx, r, jobID, stepGenerateContent, func() (string, error) {
		switch trigger.StudyType {
		case core.StudyTypeFlashcard, core.StudyTypeQuiz, core.StudyTypeQA:
			return r.generator.GenerateJSON(ctx, trigger.Prompt)
		default:
			return "", Permanent(fmt.Errorf("%w: %s", ErrUnsupportedStudyType, trigger.StudyType))
		}
	})
	if err != nil {
		return err
	}

	_, err = runStep(ctx, r, jobID, stepSaveContent, func() (string, error) {
		record, getErr := r.courses.GetStudyRecord(ctx, trigger.RecordID)
		if getErr != nil {
			return "", getErr
		}
		record.Content = content
		record.Status = core.CourseStatusReady
		if putErr := r.courses.PutStudyRecord(ctx, record); putErr != nil {
			return "", putErr
		}
		return "ok", nil
	})
	return err
}
