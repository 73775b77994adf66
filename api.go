// Package granola provides an opinionated JSON codec policy, an HTTP client
// bound to that policy, and the CSRF double-submit failure contract.
//
// The package centralizes serialization rules that are otherwise easy to get
// wrong per call site. A Mapper built by New applies one non-negotiable
// policy everywhere it is used:
//
//   - Encoding omits empty fields (nil pointers, empty strings, empty
//     containers) instead of emitting null or empty literals.
//   - Timestamps encode as RFC 3339 text, never numeric epochs.
//   - Decoding tolerates unknown fields.
//   - Decoding "" into a *string field yields nil, never a pointer to "".
//   - Decoding null or absent input into a slice, map, Seq or Dict field
//     yields an empty container, never nil.
//   - Containers produced by shape decoding are read-only, recursively.
//
// # Basic Usage
//
//	m := granola.New()
//
//	data, _ := m.Marshal(Profile{Name: "ada"})
//
//	var p Profile
//	_ = m.Unmarshal(data, &p)
//
// Ad-hoc documents decode through shape singletons:
//
//	doc, _ := m.DecodeShape(data, granola.MapShape())
//	fields := doc.(granola.Dict[any])
//
// # HTTP Client
//
// NewClient builds an outbound client whose request and response bodies go
// exclusively through a Mapper:
//
//	client := granola.NewClient()
//
//	var out CreatedTicket
//	err := client.Post(ctx, url, NewTicket{Title: "boot loop"}, &out)
//
// # CSRF Double-Submit
//
// RequireDoubleSubmit inspects a request for the header/cookie token pair
// and returns a *CSRFTokensNotFoundError when the pair is incomplete. The
// error maps to HTTP 401 through WriteError:
//
//	if err := granola.RequireDoubleSubmit(r, "X-CSRF-Token", "csrf_token"); err != nil {
//	    granola.WriteError(w, err)
//	    return
//	}
//
// # Extension Modules
//
// Extensions register themselves with RegisterModule, typically from an
// init function. Every registered module is applied once while New
// assembles a Mapper, so a Mapper always reflects whatever extensions are
// linked into the binary.
//
// # Concurrency
//
// Mapper, Shape, Seq and Dict are immutable after construction and safe
// for unlimited concurrent use without coordination.
package granola
