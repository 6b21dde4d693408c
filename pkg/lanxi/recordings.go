// ABOUTME: Recording catalog operations
// ABOUTME: Listing, slicing, container download with sidecar, and deletion
package lanxi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ListRecordings fetches the catalog of recordings stored on the device,
// sorted by start time ascending. An empty device yields an empty slice.
func (i *Instrument) ListRecordings(ctx context.Context) ([]Recording, error) {
	var recs []Recording
	if err := i.getJSON(ctx, "rest/rec/measurements", &recs); err != nil {
		return nil, err
	}
	sort.Slice(recs, func(a, b int) bool {
		return recs[a].Setup.Datetime < recs[b].Setup.Datetime
	})
	i.recordings = recs
	return recs, nil
}

// LastRecordings returns the n most recent recordings in creation order.
func (i *Instrument) LastRecordings(ctx context.Context, n int) ([]Recording, error) {
	recs, err := i.ListRecordings(ctx)
	if err != nil {
		return nil, err
	}
	return Slice(recs, -n, 0), nil
}

// GetWAV downloads the container for the given recording id into dir. The
// filename is derived from the recording name and start timestamp; a JSON
// sidecar with the recording's setup document is written next to it. The
// path of the container file is returned.
func (i *Instrument) GetWAV(ctx context.Context, dir, id string) (string, error) {
	rec, err := i.resolveRecording(ctx, id)
	if err != nil {
		return "", err
	}

	// The firmware wants the recorder application open before it serves
	// measurement files.
	if err := i.put(ctx, "rest/rec/open"); err != nil {
		i.log.Debug().Err(err).Msg("re-open before download refused")
	}

	stem := filepath.Join(dir, downloadStem(rec))

	_, body, err := i.do(ctx, http.MethodGet, strings.TrimPrefix(rec.URI, "/"), nil, "")
	if err != nil {
		return "", err
	}

	// Write via a uniquely named partial file so an interrupted download
	// never masquerades as a complete container.
	partial := stem + ".partial-" + uuid.NewString()
	if err := os.WriteFile(partial, body, 0644); err != nil {
		return "", fmt.Errorf("write container: %w", err)
	}
	if err := os.Rename(partial, stem+".wav"); err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("finalize container: %w", err)
	}

	sidecar, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal sidecar: %w", err)
	}
	if err := os.WriteFile(stem+".json", sidecar, 0644); err != nil {
		return "", fmt.Errorf("write sidecar: %w", err)
	}

	i.log.Info().Str("id", rec.ID()).Str("path", stem+".wav").Msg("recording downloaded")
	return stem + ".wav", nil
}

// DeleteRecording removes one recording from the device storage.
func (i *Instrument) DeleteRecording(ctx context.Context, id string) error {
	rec, err := i.resolveRecording(ctx, id)
	if err != nil {
		return err
	}
	if err := i.put(ctx, "rest/rec/open"); err != nil {
		i.log.Debug().Err(err).Msg("re-open before delete refused")
	}
	if _, _, err := i.do(ctx, http.MethodDelete, strings.TrimPrefix(rec.URI, "/"), nil, ""); err != nil {
		return err
	}
	i.log.Info().Str("id", rec.ID()).Msg("recording deleted")
	return nil
}

// DeleteAllConfirm is the confirmation string DeleteAll demands.
const DeleteAllConfirm = "I'm sure"

// DeleteAll removes every recording from the device storage. The confirm
// string must equal DeleteAllConfirm.
func (i *Instrument) DeleteAll(ctx context.Context, confirm string) error {
	if confirm != DeleteAllConfirm {
		return invalidf("confirmation string must be %q", DeleteAllConfirm)
	}
	recs, err := i.ListRecordings(ctx)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := i.DeleteRecording(ctx, rec.ID()); err != nil {
			return err
		}
	}
	return nil
}

// resolveRecording maps an id to a stored recording via a fresh listing.
func (i *Instrument) resolveRecording(ctx context.Context, id string) (Recording, error) {
	recs, err := i.ListRecordings(ctx)
	if err != nil {
		return Recording{}, err
	}
	rec, ok := findRecording(recs, id)
	if !ok {
		return Recording{}, fmt.Errorf("recording %q: %w", id, ErrNotFound)
	}
	return rec, nil
}

// downloadStem builds the output filename stem from the recording name and
// start timestamp.
func downloadStem(rec Recording) string {
	name := strings.ReplaceAll(rec.Setup.Name, " ", "_")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	return name + "_" + rec.StartTime().Format("20060102150405")
}
