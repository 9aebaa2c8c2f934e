package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"

	"github.com/google/uuid"
)

// Signer creates signed upload URLs in object storage.
type Signer interface {
	CreateSignedUploadURL(ctx context.Context, bucket, objectPath string) (string, error)
}

// HTTPClient is a Signer backed by the storage REST API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"`
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, objectPath string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" || c.SecretKey == "" {
		return "", fmt.Errorf("%w: storage is not configured", domain.ErrExternalService)
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, objectPath)

	body, _ := json.Marshal(map[string]interface{}{
		"expiresIn": 3600,
		"upsert":    false,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: storage request: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("storage sign request rejected")
		return "", fmt.Errorf("%w: storage status %d", domain.ErrExternalService, resp.StatusCode)
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("%w: storage response decode: %v", domain.ErrExternalService, err)
	}
	switch {
	case data.SignedURL != "":
		return data.SignedURL, nil
	case data.SignedURLSnake != "":
		return data.SignedURLSnake, nil
	case data.URL != "":
		u := data.URL
		if u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", fmt.Errorf("%w: storage returned no signed URL", domain.ErrExternalService)
}

type Service struct {
	Signer     Signer
	StorageURL string
	Bucket     string
}

// UploadResult tells the client where to PUT the file and the public URL to
// submit as milestone evidence afterwards.
type UploadResult struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Path      string `json:"path"`
}

// EvidenceUploadURL signs an upload slot for a milestone's evidence file.
func (s *Service) EvidenceUploadURL(ctx context.Context, projectID uuid.UUID, index int, fileName string) (*UploadResult, error) {
	if !domain.ValidMilestoneIndex(index) {
		return nil, fmt.Errorf("%w: milestone index must be between 0 and %d", domain.ErrValidation, domain.MilestoneCount-1)
	}
	name := path.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("%w: file_name is required", domain.ErrValidation)
	}
	if s.Signer == nil {
		return nil, fmt.Errorf("%w: storage is not configured", domain.ErrExternalService)
	}

	objectPath := fmt.Sprintf("%s/%d/%d-%s", projectID, index, time.Now().UnixMilli(), name)
	signed, err := s.Signer.CreateSignedUploadURL(ctx, s.Bucket, objectPath)
	if err != nil {
		return nil, err
	}
	public := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", strings.TrimRight(s.StorageURL, "/"), s.Bucket, objectPath)
	return &UploadResult{UploadURL: signed, PublicURL: public, Path: objectPath}, nil
}
