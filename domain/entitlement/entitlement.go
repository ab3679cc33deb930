// Package entitlement maps confirmed purchases and memberships to the
// concrete downloadable files they unlock.
package entitlement

import "path/filepath"

// File is a downloadable asset registered for a game id.
type File struct {
	ID   string
	Name string
	Path string
}

// Registry is the static file registry, keyed by game id. Game ids
// without a shippable asset simply have no entry; resolution tolerates
// orphaned references by dropping them.
type Registry struct {
	order []string
	files map[string]File
}

// NewRegistry builds a registry from file records, preserving order.
func NewRegistry(files ...File) *Registry {
	r := &Registry{files: make(map[string]File, len(files))}
	for _, f := range files {
		if _, dup := r.files[f.ID]; dup {
			continue
		}
		r.order = append(r.order, f.ID)
		r.files[f.ID] = f
	}
	return r
}

// FileAt builds the registry record for a game id under the files root,
// following the fixed <id>.zip naming convention.
func FileAt(root, id, name string) File {
	return File{ID: id, Name: name, Path: filepath.Join(root, id+".zip")}
}

// Get returns the file registered for a game id.
func (r *Registry) Get(id string) (File, bool) {
	f, ok := r.files[id]
	return f, ok
}

// All returns every registered file in registration order.
func (r *Registry) All() []File {
	out := make([]File, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.files[id])
	}
	return out
}

// Resolve returns the files matching the given ids, silently dropping
// ids without a registered asset.
func (r *Registry) Resolve(ids []string) []File {
	var out []File
	for _, id := range ids {
		if f, ok := r.files[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// RequestType distinguishes direct-purchase resolution from
// membership resolution.
type RequestType string

const (
	// RequestDirect resolves exactly the purchased item ids.
	RequestDirect RequestType = "direct"
	// RequestMembership resolves a membership's access, with catalog
	// and whole-registry fallbacks.
	RequestMembership RequestType = "membership"
)

// Request describes an entitlement resolution.
type Request struct {
	Type RequestType
	// ItemIDs restricts membership resolution when non-empty. For
	// direct requests it is the purchased id set.
	ItemIDs []string
}

// Resolve applies the entitlement rules. Direct requests resolve
// exactly the given ids. Membership requests with explicit ids resolve
// those, even when nothing matches; without explicit ids they resolve
// the catalog's game ids and, should that match nothing, fall back to
// every registered file.
// This is a PURE function.
func Resolve(reg *Registry, req Request, catalogGameIDs []string) []File {
	if req.Type != RequestMembership {
		return reg.Resolve(req.ItemIDs)
	}

	if len(req.ItemIDs) > 0 {
		return reg.Resolve(req.ItemIDs)
	}

	resolved := reg.Resolve(catalogGameIDs)
	if len(resolved) > 0 {
		return resolved
	}
	return reg.All()
}
