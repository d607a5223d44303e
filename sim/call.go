package sim

// CallRequest is a value type describing a person's request for
// transport from an origin floor to a destination floor.
type CallRequest struct {
	CallID      int
	PersonID    int
	PersonType  PersonType
	Origin      int
	Destination int
	Direction   CallDirection
	RequestT    float64
}

// NewCallRequest builds a CallRequest, deriving Direction from the
// origin/destination pair.
func NewCallRequest(callID, personID int, personType PersonType, origin, destination int, requestT float64) CallRequest {
	return CallRequest{
		CallID:      callID,
		PersonID:    personID,
		PersonType:  personType,
		Origin:      origin,
		Destination: destination,
		Direction:   DirectionFromCall(origin, destination),
		RequestT:    requestT,
	}
}
