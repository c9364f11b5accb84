package msauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	authDomain "github.com/davicafu/mstask/internal/auth/domain"
)

const maxBodyBytes = 1 << 20

type validateResponse struct {
	Success bool `json:"success"`
}

// Validator delega la validación del token en el servicio de auth remoto.
// Sin caché ni reintentos: una llamada por petición.
type Validator struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

var _ authDomain.TokenValidator = (*Validator)(nil)

// NewValidator crea el cliente. Si client es nil se usa uno propio.
func NewValidator(url string, timeout time.Duration, client *http.Client) *Validator {
	if client == nil {
		client = &http.Client{}
	}
	return &Validator{url: url, client: client, timeout: timeout}
}

func (v *Validator) Validate(ctx context.Context, authorization string) error {
	if authorization == "" {
		return authDomain.ErrNoToken
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return fmt.Errorf("%w: %v", authDomain.ErrValidatorUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", authDomain.ErrValidatorUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", authDomain.ErrValidatorUnavailable, err)
	}

	// 5xx: el servicio de auth no pudo decidir; cualquier otro no-2xx es un rechazo.
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", authDomain.ErrValidatorUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", authDomain.ErrTokenRejected, resp.StatusCode)
	}

	var out validateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", authDomain.ErrTokenRejected, err)
	}
	if !out.Success {
		return authDomain.ErrTokenRejected
	}
	return nil
}
