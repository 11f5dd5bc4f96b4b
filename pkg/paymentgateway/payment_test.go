package paymentgateway_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"github.com/Kha-Noob/liteflow-sub002/pkg/signature"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() paymentgateway.Config {
	return paymentgateway.Config{
		TmnCode:          "LITEFLOW",
		HashSecret:       "SECRETKEY",
		HashAlgorithm:    signature.AlgorithmSHA512,
		PayURL:           "https://sandbox.gateway.test/paymentv2/vpcpay.html",
		ReturnURL:        "https://pos.liteflow.test/payment/return",
		Version:          "2.1.0",
		Command:          "pay",
		CurrCode:         "VND",
		Locale:           "vn",
		OrderType:        "other",
		AmountMultiplier: 100,
	}
}

func callbackParams(txnRef, responseCode, minorAmount string) url.Values {
	return url.Values{
		paymentgateway.ParamTmnCode:           {"LITEFLOW"},
		paymentgateway.ParamTxnRef:            {txnRef},
		paymentgateway.ParamAmount:            {minorAmount},
		paymentgateway.ParamResponseCode:      {responseCode},
		paymentgateway.ParamTransactionStatus: {responseCode},
		paymentgateway.ParamTransactionNo:     {"14012345"},
		paymentgateway.ParamBankCode:          {"NCB"},
		paymentgateway.ParamOrderInfo:         {"Thanh toan ban T1"},
		paymentgateway.ParamPayDate:           {"20261014120000"},
	}
}

func TestPaymentGateway_BuildPaymentURL(t *testing.T) {
	cfg := testConfig()
	gw, err := paymentgateway.NewPaymentGateway(cfg)
	require.NoError(t, err)

	createdAt := time.Date(2026, 10, 14, 5, 0, 0, 0, time.UTC)
	request := paymentgateway.PaymentRequest{
		TxnRef:    "3f1c0d2e9a4b4c55b1e2a7d9c0f81234",
		Amount:    decimal.NewFromInt(150000),
		OrderInfo: "Thanh toan ban T1",
		ClientIP:  "10.0.0.8",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(15 * time.Minute),
	}

	t.Run("signed url carries every parameter", func(t *testing.T) {
		paymentURL, err := gw.BuildPaymentURL(request)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(paymentURL, cfg.PayURL+"?"))

		parsed, err := url.Parse(paymentURL)
		require.NoError(t, err)
		query := parsed.Query()

		assert.Equal(t, "15000000", query.Get(paymentgateway.ParamAmount))
		assert.Equal(t, request.TxnRef, query.Get(paymentgateway.ParamTxnRef))
		assert.Equal(t, "Thanh toan ban T1", query.Get(paymentgateway.ParamOrderInfo))
		assert.Equal(t, cfg.ReturnURL, query.Get(paymentgateway.ParamReturnURL))
		assert.Equal(t, "20261014050000", query.Get(paymentgateway.ParamCreateDate))
		assert.Equal(t, "20261014051500", query.Get(paymentgateway.ParamExpireDate))

		signer, err := signature.NewSigner(cfg.HashAlgorithm, cfg.HashSecret)
		require.NoError(t, err)

		canonical := signature.Canonicalize(query, paymentgateway.ParamSecureHash)
		assert.True(t, signer.Verify(canonical, query.Get(paymentgateway.ParamSecureHash)))
	})

	t.Run("same request produces the same url", func(t *testing.T) {
		first, err := gw.BuildPaymentURL(request)
		require.NoError(t, err)
		second, err := gw.BuildPaymentURL(request)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		bad := request
		bad.Amount = decimal.Zero

		_, err := gw.BuildPaymentURL(bad)

		assert.ErrorIs(t, err, paymentgateway.ErrInvalidAmount)
	})

	t.Run("rejects sub minor unit precision", func(t *testing.T) {
		bad := request
		bad.Amount = decimal.RequireFromString("10.005")

		_, err := gw.BuildPaymentURL(bad)

		assert.ErrorIs(t, err, paymentgateway.ErrInvalidAmount)
	})
}

func TestPaymentGateway_VerifyCallback(t *testing.T) {
	cfg := testConfig()
	gw, err := paymentgateway.NewPaymentGateway(cfg)
	require.NoError(t, err)

	t.Run("valid callback", func(t *testing.T) {
		raw, err := paymentgateway.SignCallback(cfg, callbackParams("tx1", "00", "15000000"))
		require.NoError(t, err)

		callback, err := gw.VerifyCallback(raw)

		require.NoError(t, err)
		assert.Equal(t, "tx1", callback.TxnRef)
		assert.Equal(t, "00", callback.ResponseCode)
		assert.Equal(t, "14012345", callback.TransactionNo)
		require.NotNil(t, callback.ReportedAmount)
		assert.True(t, callback.ReportedAmount.Equal(decimal.NewFromInt(150000)))
		assert.Equal(t, "NCB", callback.Raw.Get(paymentgateway.ParamBankCode))
	})

	t.Run("leading question mark is tolerated", func(t *testing.T) {
		raw, err := paymentgateway.SignCallback(cfg, callbackParams("tx1", "00", "15000000"))
		require.NoError(t, err)

		_, err = gw.VerifyCallback("?" + raw)

		assert.NoError(t, err)
	})

	t.Run("signature over raw bytes with percent-encoded space", func(t *testing.T) {
		signer, err := signature.NewSigner(cfg.HashAlgorithm, cfg.HashSecret)
		require.NoError(t, err)

		canonical := "vnp_Amount=15000000&vnp_OrderInfo=Thanh%20toan&vnp_ResponseCode=00&vnp_TxnRef=tx2"
		raw := "vnp_TxnRef=tx2&vnp_ResponseCode=00&vnp_OrderInfo=Thanh%20toan&vnp_Amount=15000000" +
			"&vnp_SecureHashType=HmacSHA512&vnp_SecureHash=" + signer.Sign(canonical)

		callback, err := gw.VerifyCallback(raw)

		require.NoError(t, err)
		assert.Equal(t, "Thanh toan", callback.Raw.Get(paymentgateway.ParamOrderInfo))
	})

	t.Run("tampered amount is rejected", func(t *testing.T) {
		raw, err := paymentgateway.SignCallback(cfg, callbackParams("tx1", "00", "15000000"))
		require.NoError(t, err)

		tampered := strings.Replace(raw, "vnp_Amount=15000000", "vnp_Amount=14900000", 1)

		_, err = gw.VerifyCallback(tampered)

		assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
	})

	t.Run("flipped hash byte is rejected", func(t *testing.T) {
		raw, err := paymentgateway.SignCallback(cfg, callbackParams("tx1", "00", "15000000"))
		require.NoError(t, err)

		flipped := []byte(raw)
		last := len(flipped) - 1
		if flipped[last] == 'a' {
			flipped[last] = 'b'
		} else {
			flipped[last] = 'a'
		}

		_, err = gw.VerifyCallback(string(flipped))

		assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
	})

	t.Run("missing hash is rejected", func(t *testing.T) {
		raw := callbackParams("tx1", "00", "15000000").Encode()

		_, err := gw.VerifyCallback(raw)

		assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
	})

	t.Run("duplicated parameter is rejected", func(t *testing.T) {
		raw, err := paymentgateway.SignCallback(cfg, callbackParams("tx1", "00", "15000000"))
		require.NoError(t, err)

		_, err = gw.VerifyCallback(raw + "&vnp_ResponseCode=24")

		assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
	})

	t.Run("signed callback without txn ref is malformed", func(t *testing.T) {
		params := callbackParams("", "00", "15000000")
		raw, err := paymentgateway.SignCallback(cfg, params)
		require.NoError(t, err)

		_, err = gw.VerifyCallback(raw)

		assert.ErrorIs(t, err, paymentgateway.ErrMalformedCallback)
	})

	t.Run("signed callback with unreadable amount is malformed", func(t *testing.T) {
		for _, minor := range []string{"abc", "1.5e3", "14900050.5", "-15000000", " 15000000"} {
			raw, err := paymentgateway.SignCallback(cfg, callbackParams("tx1", "00", minor))
			require.NoError(t, err)

			_, err = gw.VerifyCallback(raw)

			assert.ErrorIs(t, err, paymentgateway.ErrMalformedCallback, "amount %q", minor)
		}
	})

	t.Run("absent amount leaves reported amount empty", func(t *testing.T) {
		params := callbackParams("tx1", "00", "15000000")
		params.Del(paymentgateway.ParamAmount)
		raw, err := paymentgateway.SignCallback(cfg, params)
		require.NoError(t, err)

		callback, err := gw.VerifyCallback(raw)

		require.NoError(t, err)
		assert.Nil(t, callback.ReportedAmount)
	})
}

func TestNewPaymentGateway(t *testing.T) {
	cfg := testConfig()
	cfg.HashAlgorithm = "md5"

	_, err := paymentgateway.NewPaymentGateway(cfg)
	assert.ErrorIs(t, err, paymentgateway.ErrInvalidConfig)

	cfg = testConfig()
	cfg.AmountMultiplier = 0

	_, err = paymentgateway.NewPaymentGateway(cfg)
	assert.ErrorIs(t, err, paymentgateway.ErrInvalidConfig)
}

func TestMinorUnits(t *testing.T) {
	minor, err := paymentgateway.ToMinorUnits(decimal.RequireFromString("1500.50"), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(150050), minor)

	amount, err := paymentgateway.FromMinorUnits("150050", 100)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("1500.5")))

	for _, minor := range []string{"1.5", "1.5e3", "1e2", "+100", "-100", "", "0x10"} {
		_, err = paymentgateway.FromMinorUnits(minor, 100)
		assert.ErrorIs(t, err, paymentgateway.ErrInvalidAmount, "minor %q", minor)
	}
}
