// controllers/sheet_controller.go
package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/services"
)

type SheetController struct {
	DB     *mongo.Client
	Sheets *services.SheetsService
}

func NewSheetController(db *mongo.Client, sheets *services.SheetsService) *SheetController {
	return &SheetController{DB: db, Sheets: sheets}
}

var sheetHeader = []interface{}{
	"Payment ID",
	"Company Name",
	"Proprietors",
	"Street Address",
	"PIN Code",
	"State",
	"District",
	"Taluk",
	"Mobile Number",
	"Email",
	"Business Category",
	"Business Nature",
	"Manufacturer Scale",
	"Trader Type",
	"Major Commodities",
	"GST Number",
	"Bank Name",
	"Account Number",
	"IFSC Code",
	"Referral Source",
	"Membership Plan",
	"Plan Amount",
	"Payment Amount",
	"Payment Source",
	"Razorpay Order ID",
	"Razorpay Payment ID",
	"Payment Status",
	"Created At",
	"Paid At",
}

// UploadDataSheet replaces Sheet1 with one row per payment, snapshot
// fields flattened into columns
func (sc *SheetController) UploadDataSheet(c echo.Context) error {
	if sc.Sheets == nil {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Sheet export is not configured",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	payments := config.GetCollection(sc.DB, "payments")

	cursor, err := payments.Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payments",
		})
	}
	defer cursor.Close(ctx)

	records := []models.Payment{}
	if err := cursor.All(ctx, &records); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payments",
		})
	}

	if len(records) == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No payments found",
		})
	}

	categoryNames, err := sc.loadNames(ctx, "businesscategories")
	if err != nil {
		log.Printf("sheet export: category lookup failed: %v", err)
	}
	planNames, err := sc.loadNames(ctx, "membershipplans")
	if err != nil {
		log.Printf("sheet export: plan lookup failed: %v", err)
	}
	planAmounts := map[primitive.ObjectID]float64{}
	planCursor, err := config.GetCollection(sc.DB, "membershipplans").Find(ctx, bson.M{})
	if err == nil {
		defer planCursor.Close(ctx)
		var plans []models.MembershipPlan
		if err := planCursor.All(ctx, &plans); err == nil {
			for _, p := range plans {
				planAmounts[p.ID] = p.Amount
			}
		}
	}

	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, sheetHeader)

	for _, p := range records {
		s := p.Snapshot

		nature := []string{}
		scale := ""
		traderType := ""
		if s.BusinessNature.Manufacturer != nil && s.BusinessNature.Manufacturer.IsManufacturer {
			nature = append(nature, "Manufacturer")
			scale = strings.Join(s.BusinessNature.Manufacturer.Scale, ", ")
		}
		if s.BusinessNature.Trader != nil && s.BusinessNature.Trader.IsTrader {
			nature = append(nature, "Trader")
			traderType = strings.Join(s.BusinessNature.Trader.Type, ", ")
		}

		bankName, accountNumber, ifsc := "", "", ""
		if s.BankDetails != nil {
			bankName = s.BankDetails.BankName
			accountNumber = s.BankDetails.AccountNumber
			ifsc = s.BankDetails.IFSCCode
		}

		referralSource := ""
		if s.Referral != nil {
			referralSource = s.Referral.Source
		}

		planAmount := ""
		if amount, ok := planAmounts[p.MembershipPlan]; ok {
			planAmount = fmt.Sprintf("%.2f", amount)
		}

		paidAt := ""
		if p.PaidAt != nil {
			paidAt = p.PaidAt.Format("2006-01-02 15:04:05")
		}

		rows = append(rows, []interface{}{
			p.ID.Hex(),
			s.CompanyName,
			s.Proprietors,
			s.Address.Street,
			s.Address.Pin,
			s.Address.State,
			s.Address.District,
			s.Address.Taluk,
			s.MobileNumber,
			s.Email,
			categoryNames[s.BusinessCategory],
			strings.Join(nature, ", "),
			scale,
			traderType,
			strings.Join(s.MajorCommodities, ", "),
			s.GSTNumber,
			bankName,
			accountNumber,
			ifsc,
			referralSource,
			planNames[p.MembershipPlan],
			planAmount,
			fmt.Sprintf("%.2f", p.Amount),
			p.PaymentSource,
			p.Razorpay.OrderID,
			p.Razorpay.PaymentID,
			p.Status,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			paidAt,
		})
	}

	if err := sc.Sheets.ReplaceSheet(ctx, rows); err != nil {
		log.Printf("sheet export failed: %v", err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to export data to the sheet",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Full payment data exported successfully",
		Data:    map[string]int{"rowsExported": len(records)},
	})
}

// loadNames maps document ids to names for the given collection
func (sc *SheetController) loadNames(ctx context.Context, collection string) (map[primitive.ObjectID]string, error) {
	out := map[primitive.ObjectID]string{}

	cursor, err := config.GetCollection(sc.DB, collection).Find(ctx, bson.M{})
	if err != nil {
		return out, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return out, err
	}
	for _, d := range docs {
		out[d.ID] = d.Name
	}
	return out, nil
}
