package row

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/navijation/njtable/storage/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchema(t *testing.T, name string, columns ...catalog.Column) *catalog.Schema {
	t.Helper()
	schema, err := catalog.NewSchema(name, columns)
	require.NoError(t, err)
	return schema
}

func usersSchema(t *testing.T) *catalog.Schema {
	return mustSchema(t, "users",
		catalog.Column{Name: "id", Type: catalog.TypeInteger, PrimaryKey: true},
		catalog.Column{Name: "name", Type: catalog.TypeVarChar},
		catalog.Column{Name: "age", Type: catalog.TypeInteger},
	)
}

func TestEncode_examples(t *testing.T) {
	for _, tc := range []struct {
		name   string
		schema *catalog.Schema
		row    Row

		expected        Encoded
		expectedOffsets []int16
	}{
		{
			name:   "key first, null trailing field",
			schema: usersSchema(t),
			row:    Row{Int(42), Text("Bo"), Null()},

			expected: Encoded{
				Key: []byte{0x00, 0x00, 0x00, 0x2A},
				Value: []byte{
					0x00, 0x06, 0xFF, 0xFF, 0x00, 0x08,
					'B', 'o',
				},
			},
			expectedOffsets: []int16{6, NullOffset, 8},
		},
		{
			name: "key last",
			schema: mustSchema(t, "pairs",
				catalog.Column{Name: "a", Type: catalog.TypeInteger},
				catalog.Column{Name: "b", Type: catalog.TypeInteger, PrimaryKey: true},
			),
			row: Row{Int(7), Int(9)},

			expected: Encoded{
				Key: []byte{0x00, 0x00, 0x00, 0x09},
				Value: []byte{
					0x00, 0x04, 0x00, 0x08,
					0x00, 0x00, 0x00, 0x07,
				},
			},
			expectedOffsets: []int16{4, 8},
		},
		{
			name: "composite key around value columns",
			schema: mustSchema(t, "events",
				catalog.Column{Name: "tenant", Type: catalog.TypeVarChar, PrimaryKey: true},
				catalog.Column{Name: "flag", Type: catalog.TypeBoolean},
				catalog.Column{Name: "seq", Type: catalog.TypeSmallInt, PrimaryKey: true},
				catalog.Column{Name: "code", Type: catalog.TypeChar, Length: 4},
				catalog.Column{Name: "note", Type: catalog.TypeVarChar},
			),
			row: Row{Text("ab"), Bool(true), SmallInt(-2), Text("xy"), Null()},

			expected: Encoded{
				Key: []byte{
					0x00, 0x02, 'a', 'b',
					0xFF, 0xFE,
				},
				Value: []byte{
					0x00, 0x08, 0x00, 0x09, 0xFF, 0xFF, 0x00, 0x0D,
					0x01,
					'x', 'y', 0x00, 0x00,
				},
			},
			expectedOffsets: []int16{8, 9, NullOffset, 13},
		},
		{
			name: "no value columns",
			schema: mustSchema(t, "keys",
				catalog.Column{Name: "k", Type: catalog.TypeBigInt, PrimaryKey: true},
			),
			row: Row{BigInt(1)},

			expected: Encoded{
				Key:   []byte{0, 0, 0, 0, 0, 0, 0, 1},
				Value: []byte{0x00, 0x02},
			},
			expectedOffsets: []int16{2},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			layout, err := Plan(tc.schema, tc.row)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedOffsets, layout.Offsets)
			assert.Equal(t, 2*(tc.schema.NumValueColumns()+1), layout.HeaderSize())
			assert.Equal(t, len(tc.expected.Key), layout.KeySize())
			assert.Equal(t, len(tc.expected.Value), layout.ValueSize())

			encoded, err := Encode(tc.schema, tc.row)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, encoded)

			keyValues := Row{}
			for ordinal, value := range tc.row {
				if tc.schema.Column(ordinal).PrimaryKey {
					keyValues = append(keyValues, value)
				}
			}
			key, err := EncodeKey(tc.schema, keyValues)
			require.NoError(t, err)
			assert.Equal(t, tc.expected.Key, key)
		})
	}
}

func TestPlan_headerIndependentOfNulls(t *testing.T) {
	schema := mustSchema(t, "wide",
		catalog.Column{Name: "a", Type: catalog.TypeVarChar},
		catalog.Column{Name: "b", Type: catalog.TypeBigInt},
		catalog.Column{Name: "id", Type: catalog.TypeUUID, PrimaryKey: true},
		catalog.Column{Name: "c", Type: catalog.TypeReal},
		catalog.Column{Name: "d", Type: catalog.TypeVarBinary},
	)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	for _, row := range []Row{
		{Text("alpha"), BigInt(1), UUID(id), Real(2.5), Bytes([]byte{1, 2, 3})},
		{Null(), BigInt(1), UUID(id), Null(), Bytes([]byte{1})},
		{Null(), Null(), UUID(id), Null(), Null()},
		{Text("x"), Null(), UUID(id), Real(-1), Null()},
	} {
		layout, err := Plan(schema, row)
		require.NoError(t, err)
		assert.Equal(t, 10, layout.HeaderSize())
		assert.Len(t, layout.Offsets, 5)

		encoded, err := Encode(schema, row)
		require.NoError(t, err)
		assert.Equal(t, len(encoded.Value), layout.ValueSize())
		assert.Equal(t, id[:], encoded.Key)

		present := layout.PresentOffsets()
		for i := 1; i < len(present); i++ {
			assert.Less(t, present[i-1], present[i])
		}
		if len(present) > 0 {
			assert.Equal(t, int16(layout.HeaderSize()), present[0])
		}
	}
}

func TestEncode_errors(t *testing.T) {
	schema := usersSchema(t)

	for _, tc := range []struct {
		name   string
		schema *catalog.Schema
		row    Row

		expectedErr error
	}{
		{
			name:        "too few values",
			schema:      schema,
			row:         Row{Int(1), Text("a")},
			expectedErr: ErrSchemaMismatch,
		},
		{
			name:        "too many values",
			schema:      schema,
			row:         Row{Int(1), Text("a"), Int(3), Int(4)},
			expectedErr: ErrSchemaMismatch,
		},
		{
			name:        "null primary key",
			schema:      schema,
			row:         Row{Null(), Text("a"), Int(3)},
			expectedErr: ErrNullPrimaryKey,
		},
		{
			name: "null second key column",
			schema: mustSchema(t, "t",
				catalog.Column{Name: "a", Type: catalog.TypeInteger, PrimaryKey: true},
				catalog.Column{Name: "b", Type: catalog.TypeVarChar},
				catalog.Column{Name: "c", Type: catalog.TypeInteger, PrimaryKey: true},
			),
			row:         Row{Int(1), Text("x"), Null()},
			expectedErr: ErrNullPrimaryKey,
		},
		{
			name:        "wrong go type",
			schema:      schema,
			row:         Row{Int(1), Text("a"), BigInt(3)},
			expectedErr: ErrTypeMismatch,
		},
		{
			name:        "wrong key type",
			schema:      schema,
			row:         Row{Text("1"), Text("a"), Int(3)},
			expectedErr: ErrTypeMismatch,
		},
		{
			name: "char too long",
			schema: mustSchema(t, "t",
				catalog.Column{Name: "c", Type: catalog.TypeChar, Length: 2},
			),
			row:         Row{Text("abc")},
			expectedErr: ErrTypeMismatch,
		},
		{
			name: "char with nul",
			schema: mustSchema(t, "t",
				catalog.Column{Name: "c", Type: catalog.TypeChar, Length: 4},
			),
			row:         Row{Text("a\x00")},
			expectedErr: ErrTypeMismatch,
		},
		{
			name: "varchar over declared max",
			schema: mustSchema(t, "t",
				catalog.Column{Name: "c", Type: catalog.TypeVarChar, Length: 3},
			),
			row:         Row{Text("abcd")},
			expectedErr: ErrTypeMismatch,
		},
		{
			name: "unknown type",
			schema: mustSchema(t, "t",
				catalog.Column{Name: "c", Type: catalog.ColumnType(99), Length: 4},
			),
			row:         Row{Int(1)},
			expectedErr: ErrUnsupportedType,
		},
		{
			name: "value buffer overflow",
			schema: mustSchema(t, "t",
				catalog.Column{Name: "c", Type: catalog.TypeVarChar},
			),
			row:         Row{Text(strings.Repeat("x", MaxValueSize))},
			expectedErr: ErrRecordTooLarge,
		},
		{
			name: "key field overflow",
			schema: mustSchema(t, "t",
				catalog.Column{Name: "c", Type: catalog.TypeVarBinary, PrimaryKey: true},
			),
			row:         Row{Bytes(make([]byte, 1<<16))},
			expectedErr: ErrRecordTooLarge,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Plan(tc.schema, tc.row)
			assert.ErrorIs(t, err, tc.expectedErr)

			encoded, err := Encode(tc.schema, tc.row)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, Encoded{}, encoded)
		})
	}
}

func TestEncodeKey_errors(t *testing.T) {
	schema := mustSchema(t, "t",
		catalog.Column{Name: "a", Type: catalog.TypeInteger, PrimaryKey: true},
		catalog.Column{Name: "b", Type: catalog.TypeVarChar, PrimaryKey: true},
		catalog.Column{Name: "c", Type: catalog.TypeVarChar},
	)

	_, err := EncodeKey(schema, Row{Int(1)})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	key, err := EncodeKey(schema, Row{Int(1), Null()})
	assert.ErrorIs(t, err, ErrNullPrimaryKey)
	assert.Nil(t, key)

	_, err = EncodeKey(schema, Row{Int(1), Int(2)})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEncode_deterministic(t *testing.T) {
	schema := usersSchema(t)
	row := Row{Int(-7), Text("Ada Lovelace"), Int(36)}

	first, err := Encode(schema, row)
	require.NoError(t, err)
	second, err := Encode(schema, row)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// outputs of separate calls never share memory
	first.Value[len(first.Value)-1] = 0
	assert.NotEqual(t, first.Value, second.Value)
}

func TestEncode_concurrent(t *testing.T) {
	schema := usersSchema(t)
	expected, err := Encode(schema, Row{Int(1), Text("shared"), Int(2)})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Encoded, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Encode(schema, Row{Int(1), Text("shared"), Int(2)})
		}()
	}
	wg.Wait()

	for _, result := range results {
		assert.Equal(t, expected, result)
	}
}
