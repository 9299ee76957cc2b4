package dto

// Document is the top level of a class declaration file.
type Document struct {
	Classes []ClassDecl `json:"classes" mapstructure:"classes"`
}

// ClassDecl declares a class. Attributes keep their file order, which becomes
// the declaration order of the class.
type ClassDecl struct {
	Name       string          `json:"name" mapstructure:"name"`
	Extends    string          `json:"extends" mapstructure:"extends"`
	Attributes []AttributeDecl `json:"attributes" mapstructure:"attributes"`
}

// AttributeDecl declares one attribute. Pointer fields distinguish "not
// given" from false.
type AttributeDecl struct {
	Name        string `json:"name" mapstructure:"name"`
	Type        string `json:"type" mapstructure:"type"`
	Factory     string `json:"factory" mapstructure:"factory"`
	AcceptsNone *bool  `json:"accepts_none" mapstructure:"accepts_none"`
	Default     any    `json:"default" mapstructure:"default"`
	HasDefault  bool   `json:"-" mapstructure:"-"`

	Comparable  *bool `json:"comparable" mapstructure:"comparable"`
	Represented *bool `json:"represented" mapstructure:"represented"`
	Parent      bool  `json:"parent" mapstructure:"parent"`
	History     bool  `json:"history" mapstructure:"history"`
	Final       bool  `json:"final" mapstructure:"final"`

	Getter  *DelegateDecl `json:"getter" mapstructure:"getter"`
	Setter  *DelegateDecl `json:"setter" mapstructure:"setter"`
	Deleter *DelegateDecl `json:"deleter" mapstructure:"deleter"`
}

// Delegated reports whether any delegate is declared.
func (a AttributeDecl) Delegated() bool {
	return a.Getter != nil || a.Setter != nil || a.Deleter != nil
}

// DelegateDecl binds a registered function and its dependencies.
type DelegateDecl struct {
	Func    string   `json:"func" mapstructure:"func"`
	Gets    []string `json:"gets" mapstructure:"gets"`
	Sets    []string `json:"sets" mapstructure:"sets"`
	Deletes []string `json:"deletes" mapstructure:"deletes"`
}
