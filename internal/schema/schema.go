// Package schema holds the HCL decoding structures of configuration files.
// They mirror the file syntax one to one; internal/hcl translates them into
// the format-agnostic config.Model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Broker represents the `broker` block.
type Broker struct {
	URL       string `hcl:"url,optional"`
	ClientID  string `hcl:"client_id,optional"`
	KeepAlive string `hcl:"keepalive,optional"`
	Namespace string `hcl:"namespace,optional"`
}

// Topics represents the `topics` block.
type Topics struct {
	GetPrefix string `hcl:"get_prefix,optional"`
	SetPrefix string `hcl:"set_prefix,optional"`
}

// Editor represents the `editor` block.
type Editor struct {
	SettleWindow string `hcl:"settle_window,optional"`
}

// Port represents a `port "<side>" "<id>"` block inside a flow content block.
type Port struct {
	Side  string `hcl:"side,label"`
	ID    string `hcl:"id,label"`
	Role  string `hcl:"role"`
	Label string `hcl:"label,optional"`
}

// Content represents a `content "<kind>"` block. Which attributes are
// meaningful depends on the kind.
type Content struct {
	Kind    string     `hcl:"kind,label"`
	Text    string     `hcl:"text,optional"`
	ID      string     `hcl:"id,optional"`
	Label   string     `hcl:"label,optional"`
	Unit    string     `hcl:"unit,optional"`
	Integer bool       `hcl:"integer,optional"`
	Min     *cty.Value `hcl:"min,optional"`
	Max     *cty.Value `hcl:"max,optional"`
	Step    *cty.Value `hcl:"step,optional"`
	Default *cty.Value `hcl:"default,optional"`
	Ports   []*Port    `hcl:"port,block"`
}

// Template represents a `template "<type>"` block: one node type of the
// library.
type Template struct {
	Type      string     `hcl:"type,label"`
	Title     string     `hcl:"title,optional"`
	Removable *bool      `hcl:"removable,optional"`
	Content   []*Content `hcl:"content,block"`
}

// Group represents a `group "<name>"` block of the library.
type Group struct {
	Name      string      `hcl:"name,label"`
	Collapsed bool        `hcl:"collapsed,optional"`
	Templates []*Template `hcl:"template,block"`
}

// File represents the top-level structure of a configuration file. Every
// block is optional so settings and templates can live in separate files.
type File struct {
	Broker *Broker  `hcl:"broker,block"`
	Topics *Topics  `hcl:"topics,block"`
	Editor *Editor  `hcl:"editor,block"`
	Groups []*Group `hcl:"group,block"`
	Body   hcl.Body `hcl:",remain"`
}
