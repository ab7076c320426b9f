package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/session"
)

// ListSessions prints one "<campaign>:<user>" key per line.
func ListSessions(ctx context.Context, mgr *session.Manager, w io.Writer) error {
	keys, err := mgr.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	for _, k := range keys {
		fmt.Fprintln(w, k.String())
	}
	return nil
}

// InspectSession prints a session as indented JSON. Answers are printed as
// stored, so masked or encrypted values stay that way.
func InspectSession(ctx context.Context, mgr *session.Manager, key string, w io.Writer) error {
	k, err := domain.ParseSessionKey(key)
	if err != nil {
		return err
	}
	sess, err := mgr.Load(ctx, k)
	if err != nil {
		return fmt.Errorf("load session %s: %w", key, err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RemoveSessions deletes every key, reporting each outcome, and fails if any
// deletion failed.
func RemoveSessions(ctx context.Context, mgr *session.Manager, keys []string, w io.Writer) error {
	var errs []error
	for _, key := range keys {
		k, err := domain.ParseSessionKey(key)
		if err == nil {
			err = mgr.Delete(ctx, k)
		}
		if err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", key, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", key)
	}
	return errors.Join(errs...)
}
