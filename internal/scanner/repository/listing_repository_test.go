package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-sniper/internal/entity"
	"stock-sniper/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
)

const listingHTML = `<html><body><table class="h4">
<tr><td>有價證券代號及名稱</td><td>國際證券辨識號碼(ISIN Code)</td></tr>
<tr><td colspan="7"><b>股票</b></td></tr>
<tr><td>2330　台積電</td><td>TW0002330008</td></tr>
<tr><td>1101　台泥</td><td>TW0001101004</td></tr>
<tr><td>0050　元大台灣50</td><td>TW0000050004</td></tr>
<tr><td>1101　台泥</td><td>TW0001101004</td></tr>
</table></body></html>`

func TestListingRepositoryListInstruments(t *testing.T) {
	encoded, err := traditionalchinese.Big5.NewEncoder().String(listingHTML)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=big5")
		_, _ = w.Write([]byte(encoded))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.TWSE.ListingURL = srv.URL
	repo := NewListingRepository(cfg, logger.NewNop())

	instruments, err := repo.ListInstruments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Instrument{
		{Code: "0050", Name: "元大台灣50"},
		{Code: "1101", Name: "台泥"},
		{Code: "2330", Name: "台積電"},
	}, instruments)
}
