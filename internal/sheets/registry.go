package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/config"
	"purchasing_manager/internal/retry"
)

// UserRegistry is the Users sheet: one row per person, appended the first
// time they act. Columns are email, Slack ID, full name, phone.
type UserRegistry struct {
	client  *Client
	readCfg retry.Config
}

func NewUserRegistry(client *Client) *UserRegistry {
	return &UserRegistry{
		client:  client,
		readCfg: config.DefaultResilienceConfig.SheetRead,
	}
}

func (r *UserRegistry) Lookup(ctx context.Context, email string) (auth.Profile, bool, error) {
	rows, err := retry.WithRetry(ctx, r.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return r.client.ReadRange(ctx, fmt.Sprintf("'%s'!A2:D", config.SheetUsers))
	})
	if err != nil {
		return auth.Profile{}, false, fmt.Errorf("failed to read user registry: %w", err)
	}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if !strings.EqualFold(cellText(row[0]), email) {
			continue
		}
		profile := auth.Profile{}
		if len(row) > 1 {
			profile.SlackID = cellText(row[1])
		}
		if len(row) > 2 {
			profile.FullName = cellText(row[2])
		}
		if len(row) > 3 {
			profile.Phone = cellText(row[3])
		}
		return profile, true, nil
	}

	return auth.Profile{}, false, nil
}

func (r *UserRegistry) Append(ctx context.Context, email string, profile auth.Profile) error {
	row := [][]interface{}{
		{email, profile.SlackID, profile.FullName, profile.Phone},
	}
	if err := r.client.AppendRows(ctx, fmt.Sprintf("'%s'!A1", config.SheetUsers), row); err != nil {
		return fmt.Errorf("failed to append user: %w", err)
	}

	log.Info().Str("email", email).Msg("Registered new user")
	return nil
}

// SlackIDByEmail satisfies the notification composer's directory.
func (r *UserRegistry) SlackIDByEmail(ctx context.Context, email string) (string, bool, error) {
	profile, ok, err := r.Lookup(ctx, email)
	if err != nil || !ok {
		return "", false, err
	}
	return profile.SlackID, profile.SlackID != "", nil
}
