package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	gateway "github.com/smartpos/pos-engine/internal/gateways"
	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/pkg/logger"
	"github.com/smartpos/pos-engine/pkg/prom"
)

type PrinterGateway interface {
	Print(ctx context.Context, job *gateway.PrintJob) (*gateway.PrintResponse, error)
}

// ReceiptService renders posted transactions into the monospace
// receipt layout and hands them to the print subsystem. Rendering uses
// the item snapshots, so a receipt reprints identically after products
// change or disappear.
type ReceiptService struct {
	transactionRepo TransactionRepository
	settingsRepo    SettingsRepository
	printer         PrinterGateway
	tmpl            *template.Template
}

func NewReceiptService(transactionRepo TransactionRepository, settingsRepo SettingsRepository, printer PrinterGateway) *ReceiptService {
	return &ReceiptService{
		transactionRepo: transactionRepo,
		settingsRepo:    settingsRepo,
		printer:         printer,
		tmpl:            template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

// PrintByID renders and submits the receipt. An unknown transaction or
// an unreachable printer both come back as false without an error; the
// UI only cares whether paper came out.
func (s *ReceiptService) PrintByID(ctx context.Context, id int64) (bool, error) {
	detail, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return s.print(ctx, detail)
}

func (s *ReceiptService) PrintByCode(ctx context.Context, code string) (bool, error) {
	detail, err := s.transactionRepo.GetByCode(ctx, code)
	if err != nil {
		return false, err
	}
	return s.print(ctx, detail)
}

func (s *ReceiptService) print(ctx context.Context, detail *model.TransactionDetail) (bool, error) {
	if detail == nil {
		return false, nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}

	html, err := s.Render(settings, detail)
	if err != nil {
		return false, fmt.Errorf("render receipt: %w", err)
	}

	code := ""
	if detail.Transaction.Code != nil {
		code = *detail.Transaction.Code
	}

	_, err = s.printer.Print(ctx, &gateway.PrintJob{
		TransactionID: detail.Transaction.ID,
		Code:          code,
		HTML:          html,
	})
	if err != nil {
		prom.IncCounterVec(prom.SystemReceipt, prom.MetricReceiptsPrinted, "failed")
		logger.Warn("receipt print failed", "transaction_id", detail.Transaction.ID, "error", err)
		return false, nil
	}

	prom.IncCounterVec(prom.SystemReceipt, prom.MetricReceiptsPrinted, "printed")
	return true, nil
}

// Render produces the receipt HTML for a posted transaction.
func (s *ReceiptService) Render(settings *model.StoreSettings, detail *model.TransactionDetail) (string, error) {
	txn := detail.Transaction

	displayID := "#" + strconv.FormatInt(txn.ID, 10)
	if txn.Code != nil && *txn.Code != "" {
		displayID = *txn.Code
	}

	taxLine := "Tax (disabled)"
	if settings.TaxOn() {
		taxLine = fmt.Sprintf("Tax (%d%%)", settings.TaxRate)
	}

	lines := make([]receiptLine, 0, len(detail.Items))
	for _, item := range detail.Items {
		lines = append(lines, receiptLine{
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: formatAmount(item.Price),
			LineTotal: formatAmount(item.LineTotal),
		})
	}

	data := receiptData{
		StoreName:    settings.StoreName,
		StoreAddress: settings.StoreAddress,
		StorePhone:   settings.StorePhone,
		Header:       settings.ReceiptHeader,
		Footer:       settings.ReceiptFooter,
		DisplayID:    displayID,
		PostedAt:     txn.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:        lines,
		Subtotal:     formatAmount(txn.Subtotal),
		TaxLine:      taxLine,
		TaxAmount:    formatAmount(txn.TaxAmount),
		Total:        formatAmount(txn.Total),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type receiptData struct {
	StoreName    string
	StoreAddress string
	StorePhone   string
	Header       string
	Footer       string
	DisplayID    string
	PostedAt     string
	Items        []receiptLine
	Subtotal     string
	TaxLine      string
	TaxAmount    string
	Total        string
}

type receiptLine struct {
	Name      string
	Qty       int64
	UnitPrice string
	LineTotal string
}

// formatAmount renders an integer amount with thousands separators.
func formatAmount(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: monospace; font-size: 12px; width: 280px; margin: 0 auto; }
  .center { text-align: center; }
  .row { display: flex; justify-content: space-between; }
  .rule { border-top: 1px dashed #000; margin: 6px 0; }
  .total { font-weight: bold; }
</style>
</head>
<body>
<div class="center">
  <div class="total">{{.StoreName}}</div>
  {{if .StoreAddress}}<div>{{.StoreAddress}}</div>{{end}}
  {{if .StorePhone}}<div>{{.StorePhone}}</div>{{end}}
  {{if .Header}}<div>{{.Header}}</div>{{end}}
</div>
<div class="rule"></div>
<div class="row"><span>{{.DisplayID}}</span><span>{{.PostedAt}}</span></div>
<div class="rule"></div>
{{range .Items}}<div>{{.Name}}</div>
<div class="row"><span>{{.Qty}} x {{.UnitPrice}}</span><span>{{.LineTotal}}</span></div>
{{end}}<div class="rule"></div>
<div class="row"><span>Subtotal</span><span>{{.Subtotal}}</span></div>
<div class="row"><span>{{.TaxLine}}</span><span>{{.TaxAmount}}</span></div>
<div class="row total"><span>Total</span><span>{{.Total}}</span></div>
<div class="rule"></div>
{{if .Footer}}<div class="center">{{.Footer}}</div>{{end}}
</body>
</html>
`
