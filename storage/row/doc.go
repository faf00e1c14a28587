// Package row encodes table rows into the key and value buffers handed to a sorted
// key-value store, and decodes them again.
//
// Primary key columns go to the key buffer, in schema order. Every other column gets a
// 16-bit slot in the header of the value buffer holding the offset of its field, or -1
// when the field is NULL; a final slot holds the length of the whole value. Any field
// can therefore be read without decoding the ones before it:
//
//	view, err := row.NewValueView(schema, encoded.Value)
//	age, err := view.Field(2)
package row
