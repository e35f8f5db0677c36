package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/mission-control/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const defaultUniverseDomain = "googleapis.com"

// ServiceAccount carries the fields of a Google service-account key. They are
// supplied through configuration under the SERVICE_ACCOUNT namespace.
type ServiceAccount struct {
	Type            string `json:"type" mapstructure:"type"`
	ProjectID       string `json:"project_id" mapstructure:"project_id"`
	PrivateKeyID    string `json:"private_key_id" mapstructure:"private_key_id"`
	PrivateKey      string `json:"private_key" mapstructure:"private_key"`
	ClientEmail     string `json:"client_email" mapstructure:"client_email"`
	ClientID        string `json:"client_id" mapstructure:"client_id"`
	AuthURI         string `json:"auth_uri" mapstructure:"auth_uri"`
	TokenURI        string `json:"token_uri" mapstructure:"token_uri"`
	AuthProviderURL string `json:"auth_provider_x509_cert_url" mapstructure:"auth_provider_x509_cert_url"`
	ClientCertURL   string `json:"client_x509_cert_url" mapstructure:"client_x509_cert_url"`
	UniverseDomain  string `json:"universe_domain,omitempty" mapstructure:"universe_domain"`
}

// Validate reports every required field that is empty.
func (sa ServiceAccount) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"type", sa.Type},
		{"project_id", sa.ProjectID},
		{"private_key_id", sa.PrivateKeyID},
		{"private_key", sa.PrivateKey},
		{"client_email", sa.ClientEmail},
		{"client_id", sa.ClientID},
		{"auth_uri", sa.AuthURI},
		{"token_uri", sa.TokenURI},
		{"auth_provider_x509_cert_url", sa.AuthProviderURL},
		{"client_x509_cert_url", sa.ClientCertURL},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &common.ConfigurationError{Section: "service_account", Missing: missing}
	}
	return nil
}

// JSON renders the account in Google's key-file format.
func (sa ServiceAccount) JSON() ([]byte, error) {
	if sa.UniverseDomain == "" {
		sa.UniverseDomain = defaultUniverseDomain
	}
	// Secret stores commonly flatten newlines in PEM blocks.
	sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	return json.Marshal(sa)
}

// Credential is the handle produced by the credential loader. It only grants
// read access to spreadsheets.
type Credential struct {
	TokenSource oauth2.TokenSource
	ClientEmail string
	ProjectID   string
	Scopes      []string
}

// LoadCredentials assembles a read-only credential from the account fields.
func LoadCredentials(ctx context.Context, sa ServiceAccount) (*Credential, error) {
	if err := sa.Validate(); err != nil {
		return nil, err
	}

	key, err := sa.JSON()
	if err != nil {
		return nil, &common.ConfigurationError{Section: "service_account", Err: err}
	}

	jwtConfig, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, &common.ConfigurationError{Section: "service_account", Err: err}
	}

	return &Credential{
		TokenSource: jwtConfig.TokenSource(ctx),
		ClientEmail: jwtConfig.Email,
		ProjectID:   sa.ProjectID,
		Scopes:      jwtConfig.Scopes,
	}, nil
}

// ReadServiceAccountFile reads a downloaded key file. Fields left empty in
// the file keep the values of base.
func ReadServiceAccountFile(path string, base ServiceAccount) (ServiceAccount, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return base, &common.ConfigurationError{
			Section: "service_account",
			Err:     fmt.Errorf("failed to read key file: %w", err),
		}
	}

	sa := base
	if err := json.Unmarshal(data, &sa); err != nil {
		return base, &common.ConfigurationError{
			Section: "service_account",
			Err:     fmt.Errorf("failed to parse key file %s: %w", path, err),
		}
	}
	return sa, nil
}
