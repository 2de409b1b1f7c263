package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/lotto_picker/internal/lottery"
)

func mustVariant(t *testing.T, id lottery.VariantID) lottery.Variant {
	t.Helper()
	v, err := lottery.LookupVariant(id)
	require.NoError(t, err)
	return v
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	big := mustVariant(t, lottery.VariantBig)
	store := NewMemoryStore()

	draws, err := store.LoadDraws(ctx, big)
	require.NoError(t, err)
	assert.Empty(t, draws)

	store.Add(lottery.VariantBig, lottery.Draw{1, 2, 3, 4, 5, 6}, lottery.Draw{7, 8, 9, 10, 11, 12})
	n, err := store.SaveDraws(ctx, big, []Record{{DrawNo: 10, Numbers: lottery.Draw{13, 14, 15, 16, 17, 18}}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	draws, err = store.LoadDraws(ctx, big)
	require.NoError(t, err)
	require.Len(t, draws, 3)
	assert.Equal(t, lottery.Draw{1, 2, 3, 4, 5, 6}, draws[0])
	assert.Equal(t, lottery.Draw{13, 14, 15, 16, 17, 18}, draws[2])

	// 44 is outside the power range.
	power := mustVariant(t, lottery.VariantPower)
	store.Add(lottery.VariantPower, lottery.Draw{1, 2, 3, 4, 5, 44})
	_, err = store.LoadDraws(ctx, power)
	assert.True(t, errors.Is(err, lottery.ErrInvalidDraw))
}

func TestParseCSV(t *testing.T) {
	big := mustVariant(t, lottery.VariantBig)

	t.Run("OfficialHeader", func(t *testing.T) {
		input := "\ufeff期別,開獎日期,獎號1,獎號2,獎號3,獎號4,獎號5,獎號6,特別號\n" +
			"113000001,2024/01/02,5,12,23,34,41,49,7\n" +
			"\n" +
			"113000002,2024/01/05,1,2,3,4,5,6,9\n"
		records, err := ParseCSV(strings.NewReader(input), big)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(113000001), records[0].DrawNo)
		assert.Equal(t, lottery.Draw{5, 12, 23, 34, 41, 49}, records[0].Numbers)
		require.NotNil(t, records[0].DrawnAt)
		assert.Equal(t, 2024, records[0].DrawnAt.Year())
	})

	t.Run("NoHeader", func(t *testing.T) {
		records, err := ParseCSV(strings.NewReader("1,2,3,4,5,6\n7,8,9,10,11,12\n"), big)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(1), records[0].DrawNo)
		assert.Equal(t, int64(2), records[1].DrawNo)
		assert.Nil(t, records[0].DrawnAt)
	})

	t.Run("InvalidRow", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("n1,n2,n3,n4,n5,n6\n1,2,3,4,5,5\n"), big)
		assert.True(t, errors.Is(err, lottery.ErrInvalidDraw))
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("Empty", func(t *testing.T) {
		records, err := ParseCSV(strings.NewReader(""), big)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestCSVStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "power.csv"),
		[]byte("n1,n2,n3,n4,n5,n6\n3,8,13,21,34,38\n"), 0o644))

	draws, err := CSVStore{Dir: dir}.LoadDraws(context.Background(), mustVariant(t, lottery.VariantPower))
	require.NoError(t, err)
	assert.Equal(t, []lottery.Draw{{3, 8, 13, 21, 34, 38}}, draws)

	_, err = CSVStore{Dir: dir}.LoadDraws(context.Background(), mustVariant(t, lottery.VariantBig))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseJSON(t *testing.T) {
	big := mustVariant(t, lottery.VariantBig)

	t.Run("DefaultQuery", func(t *testing.T) {
		doc := `{"draws":[{"no":1,"numbers":[1,2,3,4,5,6]},{"no":2,"numbers":[10,20,30,40,41,49]}]}`
		draws, err := ParseJSON([]byte(doc), "", big)
		require.NoError(t, err)
		assert.Equal(t, []lottery.Draw{{1, 2, 3, 4, 5, 6}, {10, 20, 30, 40, 41, 49}}, draws)
	})

	t.Run("CustomQuery", func(t *testing.T) {
		doc := `{"content":{"lotto649Res":[{"drawNumberSize":[9,8,7,6,5,4]}]}}`
		draws, err := ParseJSON([]byte(doc), "content.lotto649Res.#.drawNumberSize", big)
		require.NoError(t, err)
		assert.Equal(t, []lottery.Draw{{9, 8, 7, 6, 5, 4}}, draws)
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"other":[]}`), "", big)
		assert.True(t, errors.Is(err, ErrQueryNoMatch))

		_, err = ParseJSON([]byte(`{"draws":[{"numbers":[1,2,3,4,5,6]}]}`), "drawz.#.numbers", big)
		assert.True(t, errors.Is(err, ErrQueryNoMatch))
		assert.Contains(t, err.Error(), "drawz.#.numbers")
	})

	t.Run("EmptyArray", func(t *testing.T) {
		draws, err := ParseJSON([]byte(`{"draws":[]}`), "", big)
		require.NoError(t, err)
		assert.Empty(t, draws)
	})

	t.Run("Fractional", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"draws":[{"numbers":[1.9,2,3,4,5,6]}]}`), "", big)
		assert.True(t, errors.Is(err, lottery.ErrInvalidDraw))
		assert.Contains(t, err.Error(), "1.9")

		draws, err := ParseJSON([]byte(`{"draws":[{"numbers":[1.0,2,3,4,5,6]}]}`), "", big)
		require.NoError(t, err)
		assert.Equal(t, []lottery.Draw{{1, 2, 3, 4, 5, 6}}, draws)
	})

	t.Run("NonNumeric", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"draws":[{"numbers":[1,2,"x",4,5,6]}]}`), "", big)
		assert.True(t, errors.Is(err, lottery.ErrInvalidDraw))
	})

	t.Run("InvalidDocument", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"draws":`), "", big)
		assert.Error(t, err)
	})
}

func TestJSONStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.json"),
		[]byte(`{"draws":[{"numbers":[11,22,33,44,45,46]}]}`), 0o644))

	draws, err := JSONStore{Dir: dir}.LoadDraws(context.Background(), mustVariant(t, lottery.VariantBig))
	require.NoError(t, err)
	assert.Equal(t, []lottery.Draw{{11, 22, 33, 44, 45, 46}}, draws)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Driver: DriverMemory}.Validate())
	assert.NoError(t, Config{Driver: DriverCSV, Dir: "data"}.Validate())
	assert.True(t, errors.Is(Config{Driver: DriverJSON}.Validate(), ErrMissingSource))
	assert.True(t, errors.Is(Config{Driver: DriverSQLite}.Validate(), ErrMissingSource))
	assert.True(t, errors.Is(Config{Driver: "mongo"}.Validate(), ErrUnknownDriver))
}

func TestNew_FileDrivers(t *testing.T) {
	store, closer, err := New(context.Background(), Config{Driver: DriverCSV, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, CSVStore{}, store)
	assert.NoError(t, closer.Close())

	store, _, err = New(context.Background(), Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, _, err = New(context.Background(), Config{Driver: DriverPostgres})
	assert.True(t, errors.Is(err, ErrMissingSource))
}
