package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/earlystart/spendcast/internal/model"
)

// OFXLoader parses OFX/QFX statement exports.
type OFXLoader struct{}

// NewOFXLoader creates an OFX loader.
func NewOFXLoader() *OFXLoader {
	return &OFXLoader{}
}

var severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)

// preprocess fixes common formatting issues in bank-exported OFX files
// before handing them to the parser.
func (l *OFXLoader) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	return severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
}

// Load parses an OFX/QFX file and returns its transactions with absolute
// amounts and the statement description as the category label.
func (l *OFXLoader) Load(r io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(l.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var txns []model.Transaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				txns = append(txns, l.convert(ofxTx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				txns = append(txns, l.convert(ofxTx))
			}
		}
	}

	slog.Info("parsed OFX file", "transactions", len(txns))
	return txns, nil
}

func (l *OFXLoader) convert(ofxTx ofxgo.Transaction) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	name := strings.TrimSpace(string(ofxTx.Name))
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		name = strings.TrimSpace(string(ofxTx.Payee.Name))
	}

	category := name
	if category == "" {
		category = model.DefaultCategory
	}
	// Credit-card payment entries keep their label; the normalizer's payment
	// filter is what excludes them from analysis.
	if fmt.Sprintf("%v", ofxTx.TrnType) == "PAYMENT" && !strings.Contains(strings.ToLower(category), "payment") {
		category = "payment"
	}

	txn := model.Transaction{
		ID:       string(ofxTx.FiTID),
		Date:     ofxTx.DtPosted.Time,
		Name:     name,
		Category: category,
		Amount:   math.Abs(amount),
	}
	txn.Hash = txn.GenerateHash()
	if txn.ID == "" {
		txn.ID = txn.Hash[:16]
	}
	return txn
}
