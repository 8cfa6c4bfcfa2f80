package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bodysense/internal/modules/history/domain"
	historyout "bodysense/internal/modules/history/port/out"
	"bodysense/internal/platform/markdown"
	"bodysense/internal/platform/slug"
)

// MarkdownJournal writes one note per run under <dir>/YYYY/MM/DD.
type MarkdownJournal struct {
	dir string
}

func NewMarkdownJournal(dir string) historyout.Journal {
	return &MarkdownJournal{dir: dir}
}

type journalMeta struct {
	SchemaVersion int    `yaml:"schema_version"`
	ID            string `yaml:"id"`
	Exercise      int    `yaml:"exercise"`
	ImageSide     int    `yaml:"image_side"`
	Positions     int    `yaml:"positions"`
	Pauses        int    `yaml:"pauses"`
	StartedAt     string `yaml:"started_at"`
	CompletedAt   string `yaml:"completed_at"`
	DurationSec   int    `yaml:"duration_seconds"`
}

func (j *MarkdownJournal) Write(_ context.Context, run domain.Run) (string, error) {
	date := run.StartedAt.Local()
	dir := filepath.Join(j.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(run.ExerciseTitle)))

	meta := journalMeta{
		SchemaVersion: domain.SchemaVersion,
		ID:            run.ID,
		Exercise:      run.ExerciseIndex,
		ImageSide:     run.ImageSide,
		Positions:     run.Positions,
		Pauses:        run.Pauses,
		StartedAt:     run.StartedAt.Format(time.RFC3339),
		CompletedAt:   run.CompletedAt.Format(time.RFC3339),
		DurationSec:   int(run.Duration().Round(time.Second) / time.Second),
	}
	body := fmt.Sprintf("# %s\n\n- Positions: %d\n- Pauses: %d\n- Duration: %s\n\n## Notes\n\n",
		run.ExerciseTitle, run.Positions, run.Pauses, run.Duration().Round(time.Second))
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}
