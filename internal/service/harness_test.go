package service_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/config"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"github.com/Kha-Noob/liteflow-sub002/pkg/signature"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func testConfig() *config.Config {
	return &config.Config{
		Gateway: paymentgateway.Config{
			TmnCode:           "LITEFLOW",
			HashSecret:        "SECRETKEY",
			HashAlgorithm:     signature.AlgorithmSHA512,
			PayURL:            "https://sandbox.gateway.test/paymentv2/vpcpay.html",
			ReturnURL:         "https://pos.liteflow.test/payment/return",
			ResultPageURL:     "https://pos.liteflow.test/payment/result",
			Version:           "2.1.0",
			Command:           "pay",
			CurrCode:          "VND",
			Locale:            "vn",
			OrderType:         "other",
			AmountMultiplier:  100,
			ExpireAfter:       15 * time.Minute,
			TimeZone:          "UTC",
			DescriptionPrefix: "Thanh toan giao dich",
		},
		Reconcile: config.Reconcile{AmountTolerance: "0.01"},
		Publisher: config.Publisher{BatchSize: 10, Queue: "payment.settled"},
	}
}

type harness struct {
	store      *fakeStore
	cfg        *config.Config
	metrics    *metrics.Metrics
	builder    service.PaymentRequestService
	validator  service.CallbackValidator
	reconciler service.ReconcileService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := testConfig()
	gateway, err := paymentgateway.NewPaymentGateway(cfg.Gateway)
	require.NoError(t, err)

	store := newFakeStore()
	store.tables[1] = model.Table{ID: 1, Name: "T1", Status: model.TableStatusAvailable}
	store.tables[2] = model.Table{ID: 2, Name: "T2", Status: model.TableStatusOccupied}

	tableTwo := int64(2)
	sessionTwo := int64(20)
	store.sessions[sessionTwo] = model.Session{ID: sessionTwo, TableID: &tableTwo,
		Status: model.SessionStatusOpen, CheckinAt: testNow.Add(-time.Hour)}
	store.orders[201] = model.Order{ID: 201, SessionID: &sessionTwo, PaymentStatus: model.OrderPaymentStatusUnpaid}
	store.orders[202] = model.Order{ID: 202, SessionID: &sessionTwo, PaymentStatus: model.OrderPaymentStatusUnpaid}
	store.orders[300] = model.Order{ID: 300, PaymentStatus: model.OrderPaymentStatusUnpaid}

	m := metrics.NewMetrics(prometheus.NewRegistry())
	clock := fixedClock{now: testNow}
	logger := zap.NewNop()

	return &harness{
		store:   store,
		cfg:     cfg,
		metrics: m,
		builder: service.NewPaymentRequestService(gateway, store, fakeTransactions{store}, fakeSessions{store},
			fakeTables{store}, cfg, clock, m, logger),
		validator: service.NewCallbackValidator(gateway, m, logger),
		reconciler: service.NewReconcileService(store, fakeTransactions{store}, fakeSessions{store},
			fakeOrders{store}, fakeTables{store}, fakeEvents{store}, cfg, clock, m, logger),
	}
}

func (h *harness) signedCallback(t *testing.T, transactionID, responseCode, minorAmount string) string {
	t.Helper()

	params := url.Values{
		paymentgateway.ParamTmnCode:           {"LITEFLOW"},
		paymentgateway.ParamTxnRef:            {transactionID},
		paymentgateway.ParamAmount:            {minorAmount},
		paymentgateway.ParamResponseCode:      {responseCode},
		paymentgateway.ParamTransactionStatus: {responseCode},
		paymentgateway.ParamTransactionNo:     {"14012345"},
		paymentgateway.ParamBankCode:          {"NCB"},
		paymentgateway.ParamOrderInfo:         {"Thanh toan ban T1"},
		paymentgateway.ParamPayDate:           {"20261014120500"},
	}

	raw, err := paymentgateway.SignCallback(h.cfg.Gateway, params)
	require.NoError(t, err)
	return raw
}
