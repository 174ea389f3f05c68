package criteria

import (
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
)

// Filter converts List parameters into a request filter. Unknown parameter
// names are ignored.
func Filter(parameters []*dao.Parameter) *model.Filter {
	ret := &model.Filter{}
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		switch parameter.Name {
		case dao.ParamUserID:
			if v, ok := parameter.Value.(string); ok {
				ret.UserID = v
			}
		case dao.ParamTeamID:
			if v, ok := parameter.Value.(string); ok {
				ret.TeamID = v
			}
		case dao.ParamStatus:
			switch actual := parameter.Value.(type) {
			case string:
				ret.Statuses = append(ret.Statuses, model.Status(actual))
			case []string:
				for _, s := range actual {
					ret.Statuses = append(ret.Statuses, model.Status(s))
				}
			case model.Status:
				ret.Statuses = append(ret.Statuses, actual)
			case []model.Status:
				ret.Statuses = append(ret.Statuses, actual...)
			}
		}
	}
	return ret
}

// Parameters converts a filter back into List parameters.
func Parameters(filter *model.Filter) []*dao.Parameter {
	if filter == nil {
		return nil
	}
	var ret []*dao.Parameter
	if filter.UserID != "" {
		ret = append(ret, dao.NewParameter(dao.ParamUserID, filter.UserID))
	}
	if filter.TeamID != "" {
		ret = append(ret, dao.NewParameter(dao.ParamTeamID, filter.TeamID))
	}
	if len(filter.Statuses) > 0 {
		ret = append(ret, &dao.Parameter{Name: dao.ParamStatus, Value: append([]model.Status(nil), filter.Statuses...)})
	}
	return ret
}
