package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTariffs() []Tariff {
	return []Tariff{
		// Listed first so a same-client match never wins on slice order alone.
		{
			Client:        "MINERA AURIFERA CUATRO DE ENERO S.A.",
			Origin:        "AREQUIPA-CARAVELI-CHALA",
			Destination:   "LIMA-LIMA-CALLAO",
			Material:      "CONCENTRADO DE ZN",
			SellUnitPrice: ptrFloat(110),
			SellCurrency:  "USD",
			CostUnitPrice: ptrFloat(80),
			CostCurrency:  "USD",
		},
		{
			Client:        "PALTARUMI S.A.C.",
			Origin:        "AREQUIPA-CARAVELI-CHALA",
			Destination:   "LIMA-LIMA-CALLAO",
			Material:      "CONCENTRADO DE ZN",
			SellUnitPrice: ptrFloat(85),
			SellCurrency:  "USD",
			CostUnitPrice: ptrFloat(60),
			CostCurrency:  "USD",
		},
		{
			Client:        "PALTARUMI S.A.C.",
			Origin:        "AREQUIPA-CARAVELI-CHALA",
			Destination:   "AREQUIPA-ISLAY-MATARANI",
			Material:      "CONCENTRADO DE COBRE",
			SellUnitPrice: ptrFloat(70),
			SellCurrency:  "USD",
			CostUnitPrice: ptrFloat(52.5),
			CostCurrency:  "USD",
		},
		{
			Client:        "MINERA VETA DORADA S.A.C.",
			Origin:        "AREQUIPA-CARAVELI-ATICO",
			Destination:   "LIMA-LIMA-CALLAO",
			Material:      "CONCENTRADO DE ORO",
			SellUnitPrice: ptrFloat(95),
			SellCurrency:  "PEN",
			CostUnitPrice: ptrFloat(71),
			CostCurrency:  "PEN",
		},
	}
}

func TestResolveTariffCascade(t *testing.T) {
	tariffs := testTariffs()

	t.Run("step 1 full route", func(t *testing.T) {
		got := ResolveTariff(tariffs, TariffQuery{
			Client:      "PALTARUMI S.A.C.",
			Origin:      "AREQUIPA-CARAVELI-CHALA",
			Destination: "LIMA-LIMA-CALLAO",
			Material:    "CONCENTRADO DE ZN",
		})
		require.NotNil(t, got)
		assert.Equal(t, "LIMA-LIMA-CALLAO", got.Destination)
	})

	t.Run("step 1 beats cross-client route match", func(t *testing.T) {
		// Another client prices the same route and material, listed before
		// the queried client's row. The client-scoped step must still win.
		got := ResolveTariff(tariffs, TariffQuery{
			Client:      "PALTARUMI S.A.C.",
			Origin:      "AREQUIPA-CARAVELI-CHALA",
			Destination: "LIMA-LIMA-CALLAO",
			Material:    "CONCENTRADO DE ZN",
		})
		require.NotNil(t, got)
		assert.Equal(t, "PALTARUMI S.A.C.", got.Client)
		assert.Equal(t, 85.0, *got.SellUnitPrice)
	})

	t.Run("step 2 client origin material", func(t *testing.T) {
		got := ResolveTariff(tariffs, TariffQuery{
			Client:   "PALTARUMI S.A.C.",
			Origin:   "AREQUIPA-CARAVELI-CHALA",
			Material: "CONCENTRADO DE COBRE",
		})
		require.NotNil(t, got)
		assert.Equal(t, "AREQUIPA-ISLAY-MATARANI", got.Destination)
	})

	t.Run("step 3 client origin only", func(t *testing.T) {
		got := ResolveTariff(tariffs, TariffQuery{
			Client: "PALTARUMI S.A.C.",
			Origin: "AREQUIPA-CARAVELI-CHALA",
		})
		require.NotNil(t, got)
		assert.Equal(t, "LIMA-LIMA-CALLAO", got.Destination)
	})

	t.Run("step 4 route and material without client", func(t *testing.T) {
		got := ResolveTariff(tariffs, TariffQuery{
			Origin:      "AREQUIPA-CARAVELI-ATICO",
			Destination: "LIMA-LIMA-CALLAO",
			Material:    "CONCENTRADO DE ORO",
		})
		require.NotNil(t, got)
		assert.Equal(t, "MINERA VETA DORADA S.A.C.", got.Client)
	})

	t.Run("step 5 bare route", func(t *testing.T) {
		got := ResolveTariff(tariffs, TariffQuery{
			Client:      "CLIENTE DESCONOCIDO",
			Origin:      "AREQUIPA-CARAVELI-ATICO",
			Destination: "LIMA-LIMA-CALLAO",
		})
		require.NotNil(t, got)
		assert.Equal(t, "MINERA VETA DORADA S.A.C.", got.Client)
	})

	t.Run("unknown destination falls through to client origin", func(t *testing.T) {
		got := ResolveTariff(tariffs, TariffQuery{
			Client:      "PALTARUMI S.A.C.",
			Origin:      "AREQUIPA-CARAVELI-CHALA",
			Destination: "CUSCO-CUSCO-CUSCO",
		})
		require.NotNil(t, got)
		assert.Equal(t, "LIMA-LIMA-CALLAO", got.Destination)
	})

	t.Run("no match returns nil", func(t *testing.T) {
		assert.Nil(t, ResolveTariff(tariffs, TariffQuery{
			Client: "CLIENTE DESCONOCIDO",
			Origin: "PUNO-PUNO-PUNO",
		}))
		assert.Nil(t, ResolveTariff(tariffs, TariffQuery{}))
	})
}

func TestComputeFinancials(t *testing.T) {
	entry := &testTariffs()[1] // sell 85, cost 60

	t.Run("totals round half up to two decimals", func(t *testing.T) {
		qty := 32.115
		fin := ComputeFinancials(entry, &qty, "TRANSPORTES PUMA S.A.C.", "ECOTRANSPORTE")
		require.NotNil(t, fin.FinalPrice)
		require.NotNil(t, fin.FinalCost)
		require.NotNil(t, fin.Margin)
		assert.Equal(t, 2729.78, *fin.FinalPrice) // 85 * 32.115 = 2729.775
		assert.Equal(t, 1926.9, *fin.FinalCost)
		assert.Equal(t, 802.88, *fin.Margin)
		assert.Equal(t, "USD", *fin.Currency)
	})

	t.Run("zero cost carrier", func(t *testing.T) {
		qty := 30.0
		fin := ComputeFinancials(entry, &qty, "ECOTRANSPORTE PERU S.A.C.", "ECOTRANSPORTE")
		require.NotNil(t, fin.FinalCost)
		assert.Equal(t, 0.0, *fin.FinalCost)
		require.NotNil(t, fin.Margin)
		assert.Equal(t, *fin.FinalPrice, *fin.Margin)
	})

	t.Run("marker match is case insensitive", func(t *testing.T) {
		qty := 30.0
		fin := ComputeFinancials(entry, &qty, "Ecotransporte Peru", "ECOTRANSPORTE")
		require.NotNil(t, fin.FinalCost)
		assert.Equal(t, 0.0, *fin.FinalCost)
	})

	t.Run("no received quantity leaves totals nil", func(t *testing.T) {
		fin := ComputeFinancials(entry, nil, "TRANSPORTES PUMA S.A.C.", "ECOTRANSPORTE")
		require.NotNil(t, fin.UnitPrice)
		assert.Nil(t, fin.FinalPrice)
		assert.Nil(t, fin.FinalCost)
		assert.Nil(t, fin.Margin)
	})

	t.Run("nil entry yields empty block", func(t *testing.T) {
		qty := 30.0
		assert.Equal(t, Financials{}, ComputeFinancials(nil, &qty, "X", "ECOTRANSPORTE"))
	})

	t.Run("unpriced cost side", func(t *testing.T) {
		e := &Tariff{SellUnitPrice: ptrFloat(85), SellCurrency: "USD"}
		qty := 10.0
		fin := ComputeFinancials(e, &qty, "TRANSPORTES PUMA S.A.C.", "ECOTRANSPORTE")
		require.NotNil(t, fin.FinalPrice)
		assert.Nil(t, fin.UnitCost)
		assert.Nil(t, fin.FinalCost)
		assert.Nil(t, fin.Margin)
	})
}
