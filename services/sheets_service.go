// services/sheets_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService exports member data into a configured Google Sheet
type SheetsService struct {
	srv     *sheets.Service
	sheetID string
}

// serviceAccountJSON assembles service-account credentials from the
// individual environment variables so no key file has to be mounted
func serviceAccountJSON() ([]byte, error) {
	projectID := os.Getenv("GOOGLE_PROJECT_ID")
	clientEmail := os.Getenv("GOOGLE_CLIENT_EMAIL")
	privateKey := os.Getenv("GOOGLE_PRIVATE_KEY")

	if projectID == "" || clientEmail == "" || privateKey == "" {
		return nil, errors.New("GOOGLE_PROJECT_ID, GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY environment variables are required")
	}

	// Keys pasted into env files usually carry literal \n sequences
	privateKey = strings.ReplaceAll(privateKey, `\n`, "\n")

	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   projectID,
		"client_email": clientEmail,
		"private_key":  privateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// NewSheetsService builds the service from environment configuration
func NewSheetsService(ctx context.Context) (*SheetsService, error) {
	sheetID := os.Getenv("SHEET_ID")
	if sheetID == "" {
		return nil, errors.New("SHEET_ID environment variable is required")
	}

	creds, err := serviceAccountJSON()
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, err
	}

	return &SheetsService{srv: srv, sheetID: sheetID}, nil
}

// ReplaceSheet clears Sheet1 and writes the given rows starting at A1.
// The first row is expected to be the header.
func (s *SheetsService) ReplaceSheet(ctx context.Context, rows [][]interface{}) error {
	_, err := s.srv.Spreadsheets.Values.Clear(s.sheetID, "Sheet1", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return err
	}

	body := &sheets.ValueRange{Values: rows}
	_, err = s.srv.Spreadsheets.Values.
		Update(s.sheetID, "Sheet1!A1", body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
