package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"kursusku_backend/internals/configs"
)

// PushRoleToProvider writes the role into the identity provider's user
// metadata. The local DB is authoritative; this is a cache refresh on the
// provider side, so callers may treat failures as retryable.
func PushRoleToProvider(ctx context.Context, userID, role string) error {
	if configs.IdentityAPIURL == "" || configs.IdentityAPIKey == "" {
		return fmt.Errorf("identity API is not configured")
	}

	body, err := sonic.Marshal(map[string]any{
		"public_metadata": map[string]string{"role": role},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/users/%s/metadata", configs.IdentityAPIURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+configs.IdentityAPIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity provider returned %d", resp.StatusCode)
	}
	return nil
}
