// Package forumpb describes the wire contract of the gophforum.v1.Forum gRPC
// service. Requests and responses are the typed messages of this package,
// carried on the wire as google.protobuf.Struct values. Marshal and
// Unmarshal convert between the two; the field accessors read raw Structs.
package forumpb

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gophforum.v1.Forum"

// Method names of the Forum service.
const (
	MethodRegister            = "Register"
	MethodLogin               = "Login"
	MethodRefreshToken        = "RefreshToken"
	MethodLogout              = "Logout"
	MethodListThreads         = "ListThreads"
	MethodGetThread           = "GetThread"
	MethodSearch              = "Search"
	MethodCreateThread        = "CreateThread"
	MethodPostMessage         = "PostMessage"
	MethodEditMessage         = "EditMessage"
	MethodRemoveMessage       = "RemoveMessage"
	MethodGetProfile          = "GetProfile"
	MethodUpdateProfile       = "UpdateProfile"
	MethodRequestAvatarUpload = "RequestAvatarUpload"
	MethodSetRole             = "SetRole"
)

// FullMethod returns the "/service/method" path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod(MethodRegister):     true,
	FullMethod(MethodLogin):        true,
	FullMethod(MethodRefreshToken): true,
	FullMethod(MethodLogout):       true,
	FullMethod(MethodListThreads):  true,
	FullMethod(MethodGetThread):    true,
	FullMethod(MethodSearch):       true,
}
