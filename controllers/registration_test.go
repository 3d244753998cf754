package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rajavruksha/ftii_backend/models"
)

func validForm() *models.RegistrationData {
	return &models.RegistrationData{
		CompanyName:            "Sharma Textiles",
		Proprietors:            "R Sharma",
		Address:                models.Address{Pin: "560001", State: "Karnataka", District: "Bengaluru"},
		MobileNumber:           "9876543210",
		Email:                  "sharma@example.com",
		CustomBusinessCategory: "Textiles",
		BusinessNature: &models.BusinessNature{
			Trader: &models.TraderNature{IsTrader: true, Type: []string{"WHOLESALE"}},
		},
		MajorCommodities: []string{"Cotton"},
	}
}

func TestValidateRegistrationData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *models.RegistrationData)
		wantOK bool
	}{
		{"valid trader", func(d *models.RegistrationData) {}, true},
		{"valid manufacturer", func(d *models.RegistrationData) {
			d.BusinessNature = &models.BusinessNature{
				Manufacturer: &models.ManufacturerNature{IsManufacturer: true, Scale: []string{"MSME"}},
			}
		}, true},
		{"missing company", func(d *models.RegistrationData) { d.CompanyName = "  " }, false},
		{"missing proprietors", func(d *models.RegistrationData) { d.Proprietors = "" }, false},
		{"short mobile", func(d *models.RegistrationData) { d.MobileNumber = "98765" }, false},
		{"bad email", func(d *models.RegistrationData) { d.Email = "not-an-email" }, false},
		{"bad pin", func(d *models.RegistrationData) { d.Address.Pin = "12" }, false},
		{"no category", func(d *models.RegistrationData) { d.CustomBusinessCategory = "" }, false},
		{"no business nature", func(d *models.RegistrationData) { d.BusinessNature = nil }, false},
		{"nature with no side selected", func(d *models.RegistrationData) {
			d.BusinessNature = &models.BusinessNature{
				Trader: &models.TraderNature{IsTrader: false},
			}
		}, false},
		{"manufacturer without scale", func(d *models.RegistrationData) {
			d.BusinessNature = &models.BusinessNature{
				Manufacturer: &models.ManufacturerNature{IsManufacturer: true},
			}
		}, false},
		{"trader without type", func(d *models.RegistrationData) {
			d.BusinessNature = &models.BusinessNature{
				Trader: &models.TraderNature{IsTrader: true},
			}
		}, false},
		{"no commodities", func(d *models.RegistrationData) { d.MajorCommodities = nil }, false},
		{"blank commodities", func(d *models.RegistrationData) { d.MajorCommodities = []string{"  ", ""} }, false},
		{"bad gst", func(d *models.RegistrationData) { d.GSTNumber = "INVALID" }, false},
		{"good gst", func(d *models.RegistrationData) { d.GSTNumber = "29ABCDE1234F1Z5" }, true},
		{"partial bank details", func(d *models.RegistrationData) {
			d.BankDetails = &models.BankDetails{BankName: "HDFC"}
		}, false},
		{"full bank details", func(d *models.RegistrationData) {
			d.BankDetails = &models.BankDetails{
				BankName:      "HDFC",
				AccountNumber: "123456789012",
				IFSCCode:      "HDFC0001234",
			}
		}, true},
		{"short account number", func(d *models.RegistrationData) {
			d.BankDetails = &models.BankDetails{
				BankName:      "HDFC",
				AccountNumber: "1234",
				IFSCCode:      "HDFC0001234",
			}
		}, false},
		{"bad referrer id", func(d *models.RegistrationData) {
			d.Referral = &models.ReferralSnapshot{ReferredByUserID: "12ab56"}
		}, false},
		{"good referrer id", func(d *models.RegistrationData) {
			d.Referral = &models.ReferralSnapshot{Source: "USER", ReferredByUserID: "123456"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			msg := validateRegistrationData(form)
			if tt.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}

	t.Run("nil form", func(t *testing.T) {
		assert.NotEmpty(t, validateRegistrationData(nil))
	})
}
