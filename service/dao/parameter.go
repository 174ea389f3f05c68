package dao

// Parameter is a named List filter.
type Parameter struct {
	Name  string
	Value interface{}
}

// Parameter names understood by request stores.
const (
	ParamUserID = "UserID"
	ParamTeamID = "TeamID"
	ParamStatus = "Status"
)

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
