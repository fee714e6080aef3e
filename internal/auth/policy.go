package auth

// Roles issued by the user service. The set is open: unknown roles simply
// match none of the checks below.
const (
	RoleNGO       = "NGO"
	RoleAdmin     = "ADMIN"
	RoleVolunteer = "VOLUNTEER"
)

// Pure allow/deny decisions, one per posting operation. The role check runs
// before any ownership comparison: ADMIN short-circuits to allow.

// CanCreate reports whether the identity may create postings.
func CanCreate(id Identity) bool {
	return id.Role == RoleNGO || id.Role == RoleAdmin
}

// CanRead reports whether the identity may read a posting. Reads are open
// to every authenticated caller regardless of role.
func CanRead(id Identity) bool {
	return true
}

// CanListByOwner reports whether the identity may list postings owned by
// ownerID. ADMIN may list anyone's; NGO only its own.
func CanListByOwner(id Identity, ownerID int64) bool {
	if id.Role == RoleAdmin {
		return true
	}
	return id.Role == RoleNGO && id.UserID == ownerID
}

// CanModify reports whether the identity may update or delete a posting
// owned by ownerID. ADMIN may modify any posting; NGO only its own; every
// other role is denied regardless of ownership.
func CanModify(id Identity, ownerID int64) bool {
	if id.Role == RoleAdmin {
		return true
	}
	return id.Role == RoleNGO && id.UserID == ownerID
}
