package editor

// Hooks are the notifications the editor sends to its owner. Every field is
// optional. callbackData is passed through untouched from the call that
// caused the change; local pointer and keyboard interaction passes nil.
type Hooks struct {
	OnNodeAdd    func(n *Node, callbackData any)
	OnNodeChange func(n *Node, callbackData any)
	OnNodeRemove func(n *Node, callbackData any)

	OnLinkAdd    func(p *Path, callbackData any)
	OnLinkRemove func(p *Path, callbackData any)

	OnParameterAdd    func(n *Node, parameterID string)
	OnParameterChange func(n *Node, parameterID string, value float64)
	OnStatisticAdd    func(n *Node, statisticID string)

	// OnDiagnostic receives protocol and usage errors. They are also logged.
	OnDiagnostic func(err error)
}

func (h *Hooks) nodeAdd(n *Node, cb any) {
	if h.OnNodeAdd != nil {
		h.OnNodeAdd(n, cb)
	}
}

func (h *Hooks) nodeChange(n *Node, cb any) {
	if h.OnNodeChange != nil {
		h.OnNodeChange(n, cb)
	}
}

func (h *Hooks) nodeRemove(n *Node, cb any) {
	if h.OnNodeRemove != nil {
		h.OnNodeRemove(n, cb)
	}
}

func (h *Hooks) linkAdd(p *Path, cb any) {
	if h.OnLinkAdd != nil {
		h.OnLinkAdd(p, cb)
	}
}

func (h *Hooks) linkRemove(p *Path, cb any) {
	if h.OnLinkRemove != nil {
		h.OnLinkRemove(p, cb)
	}
}

func (h *Hooks) parameterAdd(n *Node, id string) {
	if h.OnParameterAdd != nil {
		h.OnParameterAdd(n, id)
	}
}

func (h *Hooks) parameterChange(n *Node, id string, v float64) {
	if h.OnParameterChange != nil {
		h.OnParameterChange(n, id, v)
	}
}

func (h *Hooks) statisticAdd(n *Node, id string) {
	if h.OnStatisticAdd != nil {
		h.OnStatisticAdd(n, id)
	}
}

func (h *Hooks) diagnostic(err error) {
	if h.OnDiagnostic != nil {
		h.OnDiagnostic(err)
	}
}
