package syncing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
	clientmocks "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient/mocks"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"go.uber.org/mock/gomock"
)

var syncNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type memTable[T any] struct {
	rows  []T
	calls int
	err   error
}

func (m *memTable[T]) Upsert(ctx context.Context, rows []T) (int, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	m.rows = append(m.rows, rows...)
	return len(rows), nil
}

// memPositions guarda as posições gravadas e os documentos podados
type memPositions struct {
	rows        []*domain.DocumentPosition
	documentIDs []string
	keepIDs     []string
}

func (m *memPositions) Replace(ctx context.Context, documentIDs, keepIDs []string, positions []*domain.DocumentPosition) (int64, error) {
	m.rows = append(m.rows, positions...)
	m.documentIDs = append(m.documentIDs, documentIDs...)
	m.keepIDs = append(m.keepIDs, keepIDs...)
	return 0, nil
}

type memMapper map[string]map[string]string

func (m memMapper) ResolveLocalIDs(ctx context.Context, table string, foreignIDs []string) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, id := range foreignIDs {
		if local, ok := m[table][id]; ok {
			mapping[id] = local
		}
	}
	return mapping, nil
}

type testTables struct {
	products       *memTable[*domain.Product]
	bundles        *memTable[*domain.Bundle]
	stores         *memTable[*domain.Store]
	counterparties *memTable[*domain.Counterparty]
	stockLines     *memTable[*domain.StockLine]
	sales          *memTable[*domain.Document]
	positions      *memPositions
	payments       *memTable[*domain.Payment]
	money          *memTable[*domain.MoneyBalance]
}

type testEngine struct {
	engine     *Engine
	client     *clientmocks.MockClient
	watermarks *mocks.MockSyncStateRepository
	products   *mocks.MockProductRepository
	stock      *mocks.MockStockRepository
	tables     testTables
}

func newTestEngine(t *testing.T, mapper memMapper, cfg Config) *testEngine {
	ctrl := gomock.NewController(t)

	te := &testEngine{
		client:     clientmocks.NewMockClient(ctrl),
		watermarks: mocks.NewMockSyncStateRepository(ctrl),
		products:   mocks.NewMockProductRepository(ctrl),
		stock:      mocks.NewMockStockRepository(ctrl),
		tables: testTables{
			products:       &memTable[*domain.Product]{},
			bundles:        &memTable[*domain.Bundle]{},
			stores:         &memTable[*domain.Store]{},
			counterparties: &memTable[*domain.Counterparty]{},
			stockLines:     &memTable[*domain.StockLine]{},
			sales:          &memTable[*domain.Document]{},
			positions:      &memPositions{},
			payments:       &memTable[*domain.Payment]{},
			money:          &memTable[*domain.MoneyBalance]{},
		},
	}

	if mapper == nil {
		mapper = memMapper{}
	}

	tables := Tables{
		Products:       te.tables.products,
		Bundles:        te.tables.bundles,
		Stores:         te.tables.stores,
		Counterparties: te.tables.counterparties,
		StockLines:     te.tables.stockLines,
		Documents: map[domain.DocumentKind]repository.Upserter[*domain.Document]{
			domain.DocumentSale: te.tables.sales,
		},
		Positions: te.tables.positions,
		Payments:  te.tables.payments,
		Money:     te.tables.money,
	}

	repos := Repositories{
		Mapper:     mapper,
		Watermarks: te.watermarks,
		Products:   te.products,
		Stock:      te.stock,
	}

	cfg.Location = time.UTC
	te.engine = NewEngine(te.client, repos, tables, cfg)
	te.engine.now = func() time.Time { return syncNow }

	return te
}

func rawRows(format string, from, count int) []jsoniter.RawMessage {
	rows := make([]jsoniter.RawMessage, 0, count)
	for i := from; i < from+count; i++ {
		rows = append(rows, jsoniter.RawMessage(fmt.Sprintf(format, i)))
	}
	return rows
}

func TestEngine_Sync_IncrementalPagination(t *testing.T) {
	te := newTestEngine(t, nil, Config{})
	watermark := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	document := `{"id":"doc-%d","name":"00%[1]d","moment":"2024-03-09 15:00:00","sum":150000,"applicable":true}`

	te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntitySales).Return(&watermark, nil)

	base := msclient.ListParams{
		Limit:   expandPageLimit,
		Filters: []msclient.Filter{msclient.UpdatedAfter(watermark, time.UTC)},
		Expand:  "positions",
	}
	second, third := base, base
	second.Offset = 100
	third.Offset = 200

	gomock.InOrder(
		te.client.EXPECT().List(gomock.Any(), "entity/demand", base).
			Return(&msclient.ListResponse{Rows: rawRows(document, 0, 100)}, nil),
		te.client.EXPECT().List(gomock.Any(), "entity/demand", second).
			Return(&msclient.ListResponse{Rows: rawRows(document, 100, 100)}, nil),
		te.client.EXPECT().List(gomock.Any(), "entity/demand", third).
			Return(&msclient.ListResponse{Rows: rawRows(document, 200, 43)}, nil),
	)

	te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntitySales, syncNow, syncNow).Return(nil)

	result := te.engine.Sync(context.Background(), domain.EntitySales, false)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, domain.SyncModeIncremental, result.Mode)
	assert.Equal(t, 243, result.Fetched)
	assert.Equal(t, 243, result.Upserted)
	assert.Equal(t, 0, result.Errors)
	assert.Len(t, te.tables.sales.rows, 243)
	assert.Equal(t, "1500", te.tables.sales.rows[0].Sum.String())
	assert.Equal(t, domain.DocumentSale, te.tables.sales.rows[0].Kind)
}

func TestEngine_Sync_FullProductsTwoPasses(t *testing.T) {
	te := newTestEngine(t, nil, Config{})

	active := `{"id":"aaaaaaaa-1111-2222-3333-444444444444","name":"Camiseta","article":"CAM-1","salePrices":[{"value":150000}],"buyPrice":{"value":80000}}`
	archived := `{"id":"bbbbbbbb-1111-2222-3333-444444444444","name":"Camiseta antiga","article":"CAM-1","archived":true}`

	te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityProducts).Return(nil, nil)
	te.products.EXPECT().ArticleOwners(gomock.Any(), gomock.Any()).Return(map[string]string{}, nil).Times(2)

	gomock.InOrder(
		te.client.EXPECT().List(gomock.Any(), "entity/product", msclient.ListParams{Limit: entityPageLimit}).
			Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(active)}}, nil),
		te.client.EXPECT().List(gomock.Any(), "entity/product", msclient.ListParams{
			Limit:   entityPageLimit,
			Filters: []msclient.Filter{msclient.Archived(true)},
		}).Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(archived)}}, nil),
	)

	te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityProducts, syncNow, syncNow).Return(nil)

	result := te.engine.Sync(context.Background(), domain.EntityProducts, false)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, domain.SyncModeFull, result.Mode)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, result.Upserted)

	require.Len(t, te.tables.products.rows, 2)
	product := te.tables.products.rows[0]
	assert.Equal(t, "aaaaaaaa-1111-2222-3333-444444444444", product.ID)
	assert.Equal(t, "CAM-1", product.Article)
	assert.Equal(t, "1500.00", product.SalePrice.StringFixed(2))
	assert.Equal(t, "800.00", product.BuyPrice.StringFixed(2))

	old := te.tables.products.rows[1]
	assert.True(t, old.Archived)
	assert.Equal(t, "CAM-1-ARCH-bbbbbbbb", old.Article)
}

func TestEngine_Sync_IncrementalProductsIncludeArchived(t *testing.T) {
	te := newTestEngine(t, nil, Config{})
	watermark := time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)
	updated := msclient.UpdatedAfter(watermark, time.UTC)

	active := `{"id":"aaaaaaaa-1111-2222-3333-444444444444","name":"Camiseta","article":"CAM-2"}`
	archived := `{"id":"bbbbbbbb-1111-2222-3333-444444444444","name":"Camiseta antiga","article":"CAM-1","archived":true}`

	te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityProducts).Return(&watermark, nil)
	te.products.EXPECT().ArticleOwners(gomock.Any(), gomock.Any()).Return(map[string]string{}, nil).Times(2)

	gomock.InOrder(
		te.client.EXPECT().List(gomock.Any(), "entity/product", msclient.ListParams{
			Limit:   entityPageLimit,
			Filters: []msclient.Filter{updated},
		}).Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(active)}}, nil),
		te.client.EXPECT().List(gomock.Any(), "entity/product", msclient.ListParams{
			Limit:   entityPageLimit,
			Filters: []msclient.Filter{updated, msclient.Archived(true)},
		}).Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(archived)}}, nil),
	)

	te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityProducts, syncNow, syncNow).Return(nil)

	result := te.engine.Sync(context.Background(), domain.EntityProducts, false)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, domain.SyncModeIncremental, result.Mode)
	assert.Equal(t, 2, result.Fetched)
	require.Len(t, te.tables.products.rows, 2)
	assert.True(t, te.tables.products.rows[1].Archived)
	assert.Equal(t, "CAM-1-ARCH-bbbbbbbb", te.tables.products.rows[1].Article)
}

func TestEngine_Sync_ForcedFullIgnoresWatermark(t *testing.T) {
	te := newTestEngine(t, nil, Config{})
	watermark := syncNow.Add(-time.Hour)

	te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityStores).Return(&watermark, nil)
	te.client.EXPECT().List(gomock.Any(), "entity/store", msclient.ListParams{Limit: entityPageLimit}).
		Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(`{"id":"s-1","name":"Склад основной"}`)}}, nil)
	te.client.EXPECT().List(gomock.Any(), "entity/store", msclient.ListParams{
		Limit:   entityPageLimit,
		Filters: []msclient.Filter{msclient.Archived(true)},
	}).Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(`{"id":"s-2","name":"Магазин Центр","archived":true}`)}}, nil)
	te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityStores, syncNow, syncNow).Return(nil)

	result := te.engine.Sync(context.Background(), domain.EntityStores, true)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, domain.SyncModeFull, result.Mode)
	require.Len(t, te.tables.stores.rows, 2)
	assert.Equal(t, domain.LocationWarehouse, te.tables.stores.rows[0].Kind)
	assert.Equal(t, domain.LocationRetail, te.tables.stores.rows[1].Kind)
}

func TestEngine_Sync_StableLocalIDs(t *testing.T) {
	mapper := memMapper{
		repository.CounterpartiesTable: {"cp-1": "local-1"},
	}
	row := `{"id":"cp-%d","name":"Cliente %[1]d"}`

	for _, run := range []string{"primeira", "segunda"} {
		t.Run(run, func(t *testing.T) {
			te := newTestEngine(t, mapper, Config{})
			watermark := syncNow.Add(-time.Hour)

			te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityCounterparties).Return(&watermark, nil)
			updated := msclient.UpdatedAfter(watermark, time.UTC)
			te.client.EXPECT().List(gomock.Any(), "entity/counterparty", msclient.ListParams{
				Limit:   entityPageLimit,
				Filters: []msclient.Filter{updated},
			}).Return(&msclient.ListResponse{Rows: rawRows(row, 1, 2)}, nil)
			te.client.EXPECT().List(gomock.Any(), "entity/counterparty", msclient.ListParams{
				Limit:   entityPageLimit,
				Filters: []msclient.Filter{updated, msclient.Archived(true)},
			}).Return(&msclient.ListResponse{}, nil)
			te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityCounterparties, syncNow, syncNow).Return(nil)

			result := te.engine.Sync(context.Background(), domain.EntityCounterparties, false)

			require.True(t, result.Success, result.Error)
			require.Len(t, te.tables.counterparties.rows, 2)
			assert.Equal(t, "local-1", te.tables.counterparties.rows[0].ID)
			assert.Equal(t, "cp-2", te.tables.counterparties.rows[1].ID)
			assert.Equal(t, "cp-2", te.tables.counterparties.rows[1].MoySkladID)
			assert.NotNil(t, te.tables.counterparties.rows[1].Tags)
		})
	}
}

func TestEngine_Sync_Stock(t *testing.T) {
	mapper := memMapper{
		repository.ProductsTable: {"p-1": "local-p-1"},
		repository.StoresTable:   {"s-1": "local-s-1"},
	}
	rows := []jsoniter.RawMessage{
		jsoniter.RawMessage(`{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/product/p-1"},"stockByStore":[{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/store/s-1"},"stock":5,"reserve":1}]}`),
		jsoniter.RawMessage(`{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/product/p-2"},"stockByStore":[{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/store/s-1"},"stock":3}]}`),
	}

	tests := []struct {
		name     string
		cfg      Config
		tableErr error
		setup    func(te *testEngine)
		validate func(t *testing.T, te *testEngine, result *domain.EntitySyncResult)
	}{
		{
			name: "produto sem mapeamento é contado como erro e o snapshot é concluído",
			setup: func(te *testEngine) {
				te.stock.EXPECT().ResetStale(gomock.Any(), syncNow).Return(int64(2), nil)
				te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityStock, syncNow, syncNow).Return(nil)
			},
			validate: func(t *testing.T, te *testEngine, result *domain.EntitySyncResult) {
				require.True(t, result.Success, result.Error)
				assert.Equal(t, domain.SyncModeFull, result.Mode)
				assert.Equal(t, 2, result.Fetched)
				assert.Equal(t, 1, result.Upserted)
				assert.Equal(t, 1, result.Skipped)
				assert.Equal(t, 1, result.Errors)

				require.Len(t, te.tables.stockLines.rows, 1)
				line := te.tables.stockLines.rows[0]
				assert.Equal(t, "local-p-1", line.ProductID)
				assert.Equal(t, "local-s-1", line.StoreID)
				assert.Equal(t, 5.0, line.Stock)
				assert.Equal(t, syncNow, line.SyncedAt)
			},
		},
		{
			name: "taxa de erros acima do limite não avança a marca d'água",
			cfg:  Config{MaxErrorRate: 0.1},
			validate: func(t *testing.T, te *testEngine, result *domain.EntitySyncResult) {
				assert.False(t, result.Success)
				assert.Contains(t, result.Error, "50.00%")
			},
		},
		{
			name:     "falha na gravação não zera o estoque antigo",
			tableErr: errors.New("conexão perdida"),
			setup: func(te *testEngine) {
				te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityStock, syncNow, syncNow).Return(nil)
			},
			validate: func(t *testing.T, te *testEngine, result *domain.EntitySyncResult) {
				assert.True(t, result.Success)
				assert.Equal(t, 0, result.Upserted)
				assert.Equal(t, 2, result.Errors)
			},
		},
		{
			name: "erro ao zerar estoque antigo falha a entidade",
			setup: func(te *testEngine) {
				te.stock.EXPECT().ResetStale(gomock.Any(), syncNow).Return(int64(0), errors.New("timeout"))
			},
			validate: func(t *testing.T, te *testEngine, result *domain.EntitySyncResult) {
				assert.False(t, result.Success)
				assert.Contains(t, result.Error, ErrStaleReset.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEngine(t, mapper, tt.cfg)
			te.tables.stockLines.err = tt.tableErr
			watermark := syncNow.Add(-time.Hour)

			te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityStock).Return(&watermark, nil)
			te.client.EXPECT().List(gomock.Any(), "report/stock/bystore", msclient.ListParams{Limit: reportPageLimit}).
				Return(&msclient.ListResponse{Rows: rows}, nil)
			if tt.setup != nil {
				tt.setup(te)
			}

			result := te.engine.Sync(context.Background(), domain.EntityStock, false)
			tt.validate(t, te, result)
		})
	}
}

func TestEngine_Sync_DocumentPositions(t *testing.T) {
	mapper := memMapper{
		repository.ProductsTable:       {"p-1": "local-p-1"},
		repository.BundlesTable:        {"b-1": "local-b-1"},
		repository.CounterpartiesTable: {"cp-1": "local-cp-1"},
	}
	document := `{
		"id":"doc-1","name":"00001","moment":"2024-03-09 15:00:00.000","sum":250000,"applicable":true,
		"agent":{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/counterparty/cp-1"}},
		"store":{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/store/s-9"}},
		"positions":{"meta":{"href":""},"rows":[
			{"id":"pos-1","quantity":2,"price":100000,"discount":10,"cost":60000,"assortment":{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/product/p-1"}}},
			{"id":"pos-2","quantity":1,"price":50000,"assortment":{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/bundle/b-1"}}},
			{"id":"pos-3","quantity":1,"price":50000,"assortment":{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/variant/v-1"}}}
		]}
	}`

	te := newTestEngine(t, mapper, Config{})
	te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntitySales).Return(nil, nil)
	te.client.EXPECT().List(gomock.Any(), "entity/demand", gomock.Any()).
		Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(document)}}, nil)
	te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntitySales, syncNow, syncNow).Return(nil)

	result := te.engine.Sync(context.Background(), domain.EntitySales, false)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, 1, result.Upserted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Errors)

	require.Len(t, te.tables.sales.rows, 1)
	sale := te.tables.sales.rows[0]
	require.NotNil(t, sale.AgentID)
	assert.Equal(t, "local-cp-1", *sale.AgentID)
	assert.Nil(t, sale.StoreID)
	assert.Equal(t, time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC), sale.Moment)

	require.Len(t, te.tables.positions.rows, 2)
	first := te.tables.positions.rows[0]
	require.NotNil(t, first.ProductID)
	assert.Equal(t, "local-p-1", *first.ProductID)
	assert.Equal(t, "doc-1", first.DocumentID)
	assert.Equal(t, "600.00", first.Cost.StringFixed(2))
	assert.Equal(t, "10", first.Discount.String())

	second := te.tables.positions.rows[1]
	assert.Nil(t, second.ProductID)
	require.NotNil(t, second.BundleID)
	assert.Equal(t, "local-b-1", *second.BundleID)

	assert.Equal(t, []string{"doc-1"}, te.tables.positions.documentIDs)
	assert.Equal(t, []string{"pos-1", "pos-2", "pos-3"}, te.tables.positions.keepIDs)
}

func TestEngine_Sync_RemovedPositions(t *testing.T) {
	tests := []struct {
		name      string
		positions string
		validate  func(t *testing.T, positions *memPositions)
	}{
		{
			name:      "documento sem linhas apaga as posições antigas",
			positions: `{"meta":{"href":"","size":0},"rows":[]}`,
			validate: func(t *testing.T, positions *memPositions) {
				assert.Equal(t, []string{"doc-1"}, positions.documentIDs)
				assert.Empty(t, positions.keepIDs)
				assert.Empty(t, positions.rows)
			},
		},
		{
			name:      "lista de posições truncada não apaga nada",
			positions: `{"meta":{"href":"","size":150},"rows":[{"id":"pos-1","quantity":1,"price":100,"assortment":{"meta":{"href":"https://api.moysklad.ru/api/remap/1.2/entity/product/p-1"}}}]}`,
			validate: func(t *testing.T, positions *memPositions) {
				assert.Empty(t, positions.documentIDs)
				require.Len(t, positions.rows, 1)
				assert.Equal(t, "pos-1", positions.rows[0].ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapper := memMapper{repository.ProductsTable: {"p-1": "local-p-1"}}
			document := `{"id":"doc-1","name":"00001","moment":"2024-03-09 15:00:00","sum":100,"applicable":true,"positions":` + tt.positions + `}`

			te := newTestEngine(t, mapper, Config{})
			te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntitySales).Return(nil, nil)
			te.client.EXPECT().List(gomock.Any(), "entity/demand", gomock.Any()).
				Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(document)}}, nil)
			te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntitySales, syncNow, syncNow).Return(nil)

			result := te.engine.Sync(context.Background(), domain.EntitySales, false)

			require.True(t, result.Success, result.Error)
			tt.validate(t, te.tables.positions)
		})
	}
}

func TestEngine_Sync_PaymentsBothDirections(t *testing.T) {
	te := newTestEngine(t, nil, Config{})
	watermark := syncNow.Add(-time.Hour)

	te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityPayments).Return(&watermark, nil)
	te.client.EXPECT().List(gomock.Any(), "entity/paymentin", gomock.Any()).
		Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(`{"id":"in-1","moment":"2024-03-09 10:00:00","sum":1000}`)}}, nil)
	te.client.EXPECT().List(gomock.Any(), "entity/paymentout", gomock.Any()).
		Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{
			jsoniter.RawMessage(`{"id":"out-1","moment":"2024-03-09 11:00:00","sum":2000}`),
			jsoniter.RawMessage(`{"id":"out-2","sum":2000}`),
		}}, nil)
	te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityPayments, syncNow, syncNow).Return(nil)

	result := te.engine.Sync(context.Background(), domain.EntityPayments, false)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 2, result.Upserted)
	assert.Equal(t, 1, result.Errors)

	require.Len(t, te.tables.payments.rows, 2)
	assert.Equal(t, domain.PaymentIn, te.tables.payments.rows[0].Direction)
	assert.Equal(t, domain.PaymentOut, te.tables.payments.rows[1].Direction)
}

func TestEngine_Sync_Failures(t *testing.T) {
	tests := []struct {
		name       string
		entityType domain.EntityType
		setup      func(te *testEngine)
		errorText  string
	}{
		{
			name:       "erro não repetível na busca é fatal e preserva a marca d'água",
			entityType: domain.EntityBundles,
			setup: func(te *testEngine) {
				te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityBundles).Return(nil, nil)
				te.client.EXPECT().List(gomock.Any(), "entity/bundle", gomock.Any()).
					Return(nil, &msclient.RequestError{Method: http.MethodGet, Path: "entity/bundle", StatusCode: http.StatusBadRequest})
			},
			errorText: "falha ao buscar entity/bundle",
		},
		{
			name:       "erro ao ler a marca d'água",
			entityType: domain.EntityBundles,
			setup: func(te *testEngine) {
				te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityBundles).Return(nil, errors.New("sem conexão"))
			},
			errorText: ErrWatermark.Error(),
		},
		{
			name:       "erro ao gravar a marca d'água",
			entityType: domain.EntityMoney,
			setup: func(te *testEngine) {
				te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityMoney).Return(nil, nil)
				te.client.EXPECT().List(gomock.Any(), "report/money/byaccount", gomock.Any()).
					Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{}}, nil)
				te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityMoney, syncNow, syncNow).Return(errors.New("sem conexão"))
			},
			errorText: ErrWatermark.Error(),
		},
		{
			name:       "tipo sem procedimento",
			entityType: domain.EntityMetrics,
			setup:      func(te *testEngine) {},
			errorText:  ErrUnsupportedEntity.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEngine(t, nil, Config{})
			tt.setup(te)

			result := te.engine.Sync(context.Background(), tt.entityType, false)

			assert.False(t, result.Success)
			assert.Contains(t, result.Error, tt.errorText)
			assert.Equal(t, syncNow, result.FinishedAt)
		})
	}
}

func TestEngine_Sync_ForeignKeyViolationCountsSkipped(t *testing.T) {
	te := newTestEngine(t, nil, Config{})
	te.tables.payments.err = fmt.Errorf("erro no banco de dados em payments: %w", &pq.Error{Code: "23503"})

	te.watermarks.EXPECT().GetLastSyncStart(gomock.Any(), domain.EntityPayments).Return(nil, nil)
	te.client.EXPECT().List(gomock.Any(), "entity/paymentin", gomock.Any()).
		Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{jsoniter.RawMessage(`{"id":"in-1","moment":"2024-03-09 10:00:00"}`)}}, nil)
	te.client.EXPECT().List(gomock.Any(), "entity/paymentout", gomock.Any()).
		Return(&msclient.ListResponse{Rows: []jsoniter.RawMessage{}}, nil)
	te.watermarks.EXPECT().SetSyncWindow(gomock.Any(), domain.EntityPayments, syncNow, syncNow).Return(nil)

	result := te.engine.Sync(context.Background(), domain.EntityPayments, false)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Errors)
}

func TestEngine_Supports(t *testing.T) {
	te := newTestEngine(t, nil, Config{})

	assert.True(t, te.engine.Supports(domain.EntityProducts))
	assert.True(t, te.engine.Supports(domain.EntityMoney))
	assert.False(t, te.engine.Supports(domain.EntityMetrics))
	assert.False(t, te.engine.Supports(domain.EntityCostBackfill))
}
