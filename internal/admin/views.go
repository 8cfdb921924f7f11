package admin

// UserViewConfig filters and searches users by login. The password column
// search runs against the stored hash.
func UserViewConfig() ViewConfig {
	return ViewConfig{
		ColumnFilters:    []string{"login"},
		ColumnSearchable: []string{"login", "password"},
	}
}

// NewUserView is the user admin
func NewUserView(store UserStore) *ModelView {
	return NewModelView("user", NewUserResource(store), UserViewConfig())
}

// NewSearchFieldView is the standard search field admin
func NewSearchFieldView(store SearchFieldStore) *ModelView {
	return NewModelView("searchfield", NewSearchFieldResource(store), ViewConfig{})
}

// NewSearchTypeView is the standard search type admin
func NewSearchTypeView(store SearchTypeStore, fields SearchFieldStore) *ModelView {
	return NewModelView("searchtype", NewSearchTypeResource(store, fields), ViewConfig{})
}

// ReferencePickerViewConfig filters search types by source, searches them by
// label and picks required fields on demand by name.
func ReferencePickerViewConfig() ViewConfig {
	return ViewConfig{
		ColumnFilters:    []string{"source"},
		ColumnSearchable: []string{"label"},
		AjaxRefs: map[string]AjaxRef{
			"required_fields": {Fields: []string{"name"}},
		},
	}
}

// NewReferencePickerView is a search type admin using ReferencePickerViewConfig
func NewReferencePickerView(store SearchTypeStore, fields SearchFieldStore) *ModelView {
	return NewModelView("searchtype_picker", NewSearchTypeResource(store, fields), ReferencePickerViewConfig())
}

// SeparatedSubformViewConfig renders the search field form as an inline
// group closed by a rule, with the name input in red.
func SeparatedSubformViewConfig() ViewConfig {
	return ViewConfig{
		FormRules: []Rule{
			Subform("Search field",
				FieldRule("name"),
				FieldRule("label"),
				HTMLRule("<hr>"),
			),
		},
		WidgetArgs: map[string]map[string]string{
			"name": {"style": "color: red"},
		},
	}
}

// NewSeparatedSubformView is a search field admin using SeparatedSubformViewConfig
func NewSeparatedSubformView(store SearchFieldStore) *ModelView {
	return NewModelView("searchfield_separated", NewSearchFieldResource(store), SeparatedSubformViewConfig())
}
