package gate

// Role names a job function. Roles are compared case-sensitively.
type Role string

// AllowList is the set of roles permitted to invoke an operation.
// The empty list admits any authenticated subject.
type AllowList []Role

// AnyRole admits every authenticated subject.
var AnyRole = AllowList(nil)

// Allow builds an AllowList from role names.
func Allow(roles ...string) AllowList {
	l := make(AllowList, 0, len(roles))
	for _, r := range roles {
		l = append(l, Role(r))
	}
	return l
}

// Permits reports whether role is admitted by the list.
func (l AllowList) Permits(role Role) bool {
	if len(l) == 0 {
		return role != ""
	}
	for _, r := range l {
		if r == role {
			return true
		}
	}
	return false
}

// Strings returns the role names, for templates and logs.
func (l AllowList) Strings() []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = string(r)
	}
	return out
}
