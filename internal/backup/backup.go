// Package backup exports learner data to a JSON archive and restores it.
// Imports are validated against a JSON schema before any data is touched.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pentatonicway/ear-trainer/internal/store"
)

// FormatVersion is the archive format this build reads and writes.
const FormatVersion = 1

var (
	ErrVersionMismatch = errors.New("unsupported archive version")
	ErrInvalidArchive  = errors.New("archive failed validation")
)

// Archive is the on-disk backup format.
type Archive struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Sessions   []SessionEntry    `json:"sessions"`
	Stats      []StatEntry       `json:"stats"`
	Settings   map[string]string `json:"settings"`
}

// SessionEntry is one session record in the archive.
type SessionEntry struct {
	ID         string                     `json:"id"`
	FinishedAt time.Time                  `json:"finishedAt"`
	Score      int                        `json:"score"`
	Total      int                        `json:"total"`
	Breakdown  map[string]store.TallyData `json:"breakdown,omitempty"`
}

// StatEntry is one cumulative interval stat in the archive.
type StatEntry struct {
	IntervalID string `json:"intervalId"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
}

// Export writes the full learner state as an archive to w.
func Export(ctx context.Context, st *store.Store, w io.Writer) error {
	// A negative limit disables the cap in SQLite, returning every session.
	sessions, err := st.Sessions().Recent(ctx, -1)
	if err != nil {
		return fmt.Errorf("read sessions: %w", err)
	}
	stats, err := st.Stats().All(ctx)
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}
	settings, err := st.Settings().All(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	archive := Archive{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Sessions:   make([]SessionEntry, 0, len(sessions)),
		Stats:      make([]StatEntry, 0, len(stats)),
		Settings:   settings,
	}
	for _, rec := range sessions {
		archive.Sessions = append(archive.Sessions, SessionEntry{
			ID:         rec.ID,
			FinishedAt: rec.FinishedAt,
			Score:      rec.Score,
			Total:      rec.Total,
			Breakdown:  rec.Breakdown,
		})
	}
	for _, s := range stats {
		archive.Stats = append(archive.Stats, StatEntry{
			IntervalID: s.IntervalID,
			Correct:    s.Correct,
			Total:      s.Total,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return nil
}

// Import validates the archive in r, wipes the store, and restores the
// archive's contents. The store is untouched when validation fails.
func Import(ctx context.Context, st *store.Store, r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	archive, err := decode(raw)
	if err != nil {
		return err
	}

	if err := st.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe store: %w", err)
	}

	sessions := st.Sessions()
	for _, entry := range archive.Sessions {
		rec := store.SessionRecord{
			ID:         entry.ID,
			FinishedAt: entry.FinishedAt,
			Score:      entry.Score,
			Total:      entry.Total,
			Breakdown:  entry.Breakdown,
		}
		if err := sessions.Append(ctx, rec); err != nil {
			return fmt.Errorf("restore session %s: %w", entry.ID, err)
		}
	}

	breakdown := make(map[string]store.TallyData, len(archive.Stats))
	for _, s := range archive.Stats {
		breakdown[s.IntervalID] = store.TallyData{Correct: s.Correct, Total: s.Total}
	}
	if err := st.Stats().Fold(ctx, breakdown); err != nil {
		return fmt.Errorf("restore stats: %w", err)
	}

	settings := st.Settings()
	for key, value := range archive.Settings {
		if err := settings.SetString(ctx, key, value); err != nil {
			return fmt.Errorf("restore setting %s: %w", key, err)
		}
	}
	return nil
}

// decode validates raw against the archive schema and unmarshals it.
func decode(raw []byte) (*Archive, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidArchive, err)
	}

	compiled, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile archive schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	var archive Archive
	if err := json.Unmarshal(raw, &archive); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if archive.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got version %d, want %d", ErrVersionMismatch, archive.Version, FormatVersion)
	}
	return &archive, nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// compiledSchema compiles the archive schema once and caches it.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(archiveSchema), &doc); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const schemaURL = "schema://pentatone-archive.json"
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

const archiveSchema = `{
  "type": "object",
  "required": ["version", "exportedAt", "sessions", "stats", "settings"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "exportedAt": {"type": "string"},
    "sessions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "finishedAt", "score", "total"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "finishedAt": {"type": "string"},
          "score": {"type": "integer", "minimum": 0},
          "total": {"type": "integer", "minimum": 0},
          "breakdown": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "required": ["correct", "total"],
              "properties": {
                "correct": {"type": "integer", "minimum": 0},
                "total": {"type": "integer", "minimum": 0}
              }
            }
          }
        }
      }
    },
    "stats": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["intervalId", "correct", "total"],
        "properties": {
          "intervalId": {"type": "string", "minLength": 1},
          "correct": {"type": "integer", "minimum": 0},
          "total": {"type": "integer", "minimum": 0}
        }
      }
    },
    "settings": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`
