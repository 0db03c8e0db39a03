package alloy

import "strconv"

// Markers of the specification text. The invariant synthesizer locates the
// parts it rewrites by these exact strings.
const (
	FactMarker  = "fact {"
	RunMarker   = "run {"
	ScopeMarker = "for 0 but"
	CheckMarker = "check check"

	// QF is the singleton signature holding every state variable version.
	QF = "QF"
	// ThrowArgPrefix starts every exception state argument of a fact call.
	ThrowArgPrefix = QF + ".throw_"

	PreconditionPrefix  = "precondition_"
	PostconditionPrefix = "postcondition_"
	CheckPrefix         = "check_"

	// Extension of written specifications.
	Extension = ".als"
)

// PreconditionName returns the precondition predicate of a program. The
// overload index is appended only for overloads after the first.
func PreconditionName(moduleID, method string, overload int) string {
	return PreconditionPrefix + programName(moduleID, method, overload)
}

// PostconditionName returns the postcondition predicate of a program.
func PostconditionName(moduleID, method string, overload int) string {
	return PostconditionPrefix + programName(moduleID, method, overload)
}

// CheckName returns the assertion checked for a program.
func CheckName(programID string) string {
	return CheckPrefix + programID
}

func programName(moduleID, method string, overload int) string {
	name := moduleID + "_" + method
	if overload > 0 {
		name += "_" + strconv.Itoa(overload)
	}
	return name
}
