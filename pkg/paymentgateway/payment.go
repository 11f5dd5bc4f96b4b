package paymentgateway

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/pkg/signature"
)

const (
	IPNAckOK          = "OK"
	IPNAckRetry       = "FAILED"
	IPNAckInvalidHash = "INVALID_HASH"
	IPNAckNotFound    = "NOT_FOUND"
)

type Gateway interface {
	BuildPaymentURL(request PaymentRequest) (string, error)
	VerifyCallback(rawQuery string) (Callback, error)
}

type paymentGateway struct {
	config   Config
	signer   signature.Signer
	location *time.Location
}

func NewPaymentGateway(cfg Config) (Gateway, error) {
	if cfg.PayURL == "" || cfg.TmnCode == "" {
		return nil, fmt.Errorf("%w: pay_url and tmn_code are required", ErrInvalidConfig)
	}

	if cfg.AmountMultiplier <= 0 {
		return nil, fmt.Errorf("%w: amount_multiplier must be positive", ErrInvalidConfig)
	}

	signer, err := signature.NewSigner(cfg.HashAlgorithm, cfg.HashSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	location := time.UTC
	if cfg.TimeZone != "" {
		location, err = time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("%w: time_zone: %v", ErrInvalidConfig, err)
		}
	}

	return &paymentGateway{config: cfg, signer: signer, location: location}, nil
}

func (p *paymentGateway) BuildPaymentURL(request PaymentRequest) (string, error) {
	minor, err := ToMinorUnits(request.Amount, p.config.AmountMultiplier)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set(ParamVersion, p.config.Version)
	params.Set(ParamCommand, p.config.Command)
	params.Set(ParamTmnCode, p.config.TmnCode)
	params.Set(ParamAmount, strconv.FormatInt(minor, 10))
	params.Set(ParamCurrCode, p.config.CurrCode)
	params.Set(ParamTxnRef, request.TxnRef)
	params.Set(ParamOrderInfo, request.OrderInfo)
	params.Set(ParamOrderType, p.config.OrderType)
	params.Set(ParamLocale, p.config.Locale)
	params.Set(ParamReturnURL, p.config.ReturnURL)
	params.Set(ParamIPAddr, request.ClientIP)
	params.Set(ParamCreateDate, request.CreatedAt.In(p.location).Format(dateLayout))
	if !request.ExpiresAt.IsZero() {
		params.Set(ParamExpireDate, request.ExpiresAt.In(p.location).Format(dateLayout))
	}
	if request.BankCode != "" {
		params.Set(ParamBankCode, request.BankCode)
	}

	canonical := signature.Canonicalize(params)
	mac := p.signer.Sign(canonical)

	separator := "?"
	if strings.Contains(p.config.PayURL, "?") {
		separator = "&"
	}

	return p.config.PayURL + separator + canonical + "&" + ParamSecureHash + "=" + mac, nil
}

// VerifyCallback checks the signature over the raw query exactly as received and only then
// extracts the callback fields.
func (p *paymentGateway) VerifyCallback(rawQuery string) (Callback, error) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")

	values, err := signature.ParseRaw(rawQuery)
	if err != nil {
		return Callback{}, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
	}

	provided := values.Get(ParamSecureHash)
	if provided == "" {
		return Callback{}, fmt.Errorf("%w: missing %s", ErrInvalidSignature, ParamSecureHash)
	}

	canonical, err := signature.CanonicalizeRaw(rawQuery, ParamSecureHash, ParamSecureHashType)
	if err != nil {
		if errors.Is(err, signature.ErrDuplicateParam) {
			return Callback{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return Callback{}, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
	}

	if !p.signer.Verify(canonical, provided) {
		return Callback{}, ErrInvalidSignature
	}

	callback := Callback{
		TxnRef:            values.Get(ParamTxnRef),
		ResponseCode:      values.Get(ParamResponseCode),
		TransactionStatus: values.Get(ParamTransactionStatus),
		TransactionNo:     values.Get(ParamTransactionNo),
		BankCode:          values.Get(ParamBankCode),
		BankTranNo:        values.Get(ParamBankTranNo),
		PayDate:           values.Get(ParamPayDate),
		Raw:               values,
	}

	if callback.TxnRef == "" || callback.ResponseCode == "" {
		return Callback{}, fmt.Errorf("%w: %s and %s are required", ErrMalformedCallback,
			ParamTxnRef, ParamResponseCode)
	}

	if _, present := values[ParamAmount]; present {
		amount, err := FromMinorUnits(values.Get(ParamAmount), p.config.AmountMultiplier)
		if err != nil {
			return Callback{}, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
		}
		callback.ReportedAmount = &amount
	}

	return callback, nil
}

// SignCallback produces a signed raw query for a callback payload, the way the gateway
// does. Used by sandbox tooling and tests.
func SignCallback(cfg Config, params url.Values) (string, error) {
	signer, err := signature.NewSigner(cfg.HashAlgorithm, cfg.HashSecret)
	if err != nil {
		return "", err
	}

	canonical := signature.Canonicalize(params, ParamSecureHash, ParamSecureHashType)

	return canonical + "&" + ParamSecureHash + "=" + signer.Sign(canonical), nil
}
