package gateway

// Inbound event opcodes from the chat platform gateway.
const (
	opMemberJoin    = "member_join"
	opMessageCreate = "message_create"

	// Outbound opcodes.
	opMemberSend  = "member_send"
	opChannelSend = "channel_send"
	opRoleAssign  = "role_assign"
)

// event is the JSON frame exchanged with the gateway. Inbound frames carry
// the member/channel fields; outbound frames carry a nonce and content.
type event struct {
	Op            string `json:"op"`
	Nonce         string `json:"nonce,omitempty"`
	MemberID      string `json:"member_id,omitempty"`
	ChannelID     string `json:"channel_id,omitempty"`
	Content       string `json:"content,omitempty"`
	Role          string `json:"role,omitempty"`
	DirectMessage bool   `json:"direct_message,omitempty"`
	Bot           bool   `json:"bot,omitempty"`
}
