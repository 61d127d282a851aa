package domain

type CtxKey string

const (
	KeyUserID      CtxKey = "UserID"
	KeyUserEmail   CtxKey = "Email"
	KeyUserRole    CtxKey = "Role"
	KeyAccessToken CtxKey = "AccessToken"
	KeyIdentity    CtxKey = "Identity"
)
