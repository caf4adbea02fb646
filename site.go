package opspec

import (
	"reflect"
	"sync"
)

// Site is a uniform handle for a declaration site a chain can attach to: a
// controller (its chain applies to every operation the controller exposes), a
// single bound action, or a plain not-yet-routed callable. The handle hides
// where the chain is stored; route discovery constructs sites and reads their
// heads at generation time.
//
// A chain attached to a callable that routing never discovers is silently
// inert: it simply never participates in resolution.
type Site interface {
	// Head returns the outermost layer of the chain attached at this site, or
	// nil when nothing was attached.
	Head() *Layer

	attach(l Layer) Site
}

// chainRegistry stores chain heads per site key. Written only at load time
// (declaration), read at generation time.
var chainRegistry sync.Map // siteKey -> *Layer

type siteKey struct {
	kind   string
	target any
	action string
}

type registrySite struct {
	key siteKey
}

func (s registrySite) Head() *Layer {
	if v, ok := chainRegistry.Load(s.key); ok {
		return v.(*Layer)
	}
	return nil
}

func (s registrySite) attach(l Layer) Site {
	l.inner = s.Head()
	chainRegistry.Store(s.key, &l)
	return s
}

// SiteForController returns the site holding a controller-level chain. The
// chain applies to every operation the controller exposes; per-action chains
// stack over it (see CombineSites). Identity is the controller's type, so
// separate instances of one controller share a declaration site.
func SiteForController(controller any) Site {
	return registrySite{key: siteKey{kind: "controller", target: indirectType(controller)}}
}

// SiteForAction returns the site of one bound action of a controller,
// independent of the controller-level chain.
func SiteForAction(controller any, action string) Site {
	return registrySite{key: siteKey{kind: "action", target: indirectType(controller), action: action}}
}

// SiteForFunc returns the site of a plain callable. The chain is created
// lazily on first attachment, so a function may be decorated before it is ever
// routed and discovered later.
func SiteForFunc(fn any) Site {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic("opspec: SiteForFunc requires a function value")
	}
	return registrySite{key: siteKey{kind: "func", target: v.Pointer()}}
}

// CombineSites layers outer's chain over inner's, the way a bound action's
// overrides take precedence over its controller's. The chains themselves are
// copy-joined; neither site's stored chain is modified.
func CombineSites(outer, inner Site) Site {
	return staticSite{head: outer.Head().stackOnto(inner.Head())}
}

// StaticSite wraps an already-resolved chain head, for collaborators that
// assemble chains themselves.
func StaticSite(head *Layer) Site { return staticSite{head: head} }

type staticSite struct {
	head *Layer
}

func (s staticSite) Head() *Layer { return s.head }

func (s staticSite) attach(l Layer) Site {
	l.inner = s.head
	return staticSite{head: &l}
}

func indirectType(v any) any {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
