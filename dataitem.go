package asterix

import "strings"

// DataItem binds one decoded item occurrence to its owning description and
// the byte span within the record that belongs to it. It owns no memory
// beyond the slice header: Bytes aliases into the DataRecord's backing
// array for the lifetime of the decode.
type DataItem struct {
	Description *ItemDescription
	Bytes       []byte
}

// Render delegates to the owned format tree on a copy of ctx whose itemID is
// this item's ID; ctx.category (used by the EOut "<category>.<field>"
// naming) is passed through as the caller set it.
func (di *DataItem) Render(ctx *renderCtx, out *strings.Builder) (bool, error) {
	if di.Description == nil || di.Description.Format == nil {
		return false, &SchemaError{Reason: "data item has no description"}
	}
	itemCtx := *ctx
	itemCtx.itemID = di.Description.IDString
	return di.Description.Format.Render(&itemCtx, di.Bytes, len(di.Bytes), out)
}
