package avatar

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const randomUserAPI = "https://randomuser.me/api/"

var client = &http.Client{Timeout: 5 * time.Second}

// Random fetches a random profile picture URL from the randomuser.me API.
// It returns an empty string when the API cannot be reached, so signup can
// still proceed without a picture.
func Random(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, randomUserAPI, nil)
	if err != nil {
		return ""
	}

	resp, err := client.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("Failed to fetch random avatar")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.Warnf("Random avatar API returned status %d", resp.StatusCode)
		return ""
	}

	var payload struct {
		Results []struct {
			Picture struct {
				Large string `json:"large"`
			} `json:"picture"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logrus.WithError(err).Warn("Failed to decode random avatar response")
		return ""
	}
	if len(payload.Results) == 0 {
		return ""
	}

	return payload.Results[0].Picture.Large
}
