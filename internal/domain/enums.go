package domain

type NodeKind string

const (
	NodeRoot       NodeKind = "root"
	NodeSubproject NodeKind = "subproject"
)

// Kind classifies p by its position in the hierarchy.
func (p *Project) Kind() NodeKind {
	if p.IsRoot() {
		return NodeRoot
	}
	return NodeSubproject
}
