package constants

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// 支付提供方常量
const (
	PaymentProviderLgpay    = "lgpay"
	PaymentProviderRazorpay = "razorpay"
)

// LG-Pay 回调应答常量
// 网关按明文内容判断回调处理结果，应答不是结构化响应。
const (
	NotifyAckSuccess = "success"
	NotifyAckFail    = "fail"
)

// LG-Pay 回调交易状态
const (
	TradeStatusSuccess = "TRADE_SUCCESS"
)

// 客户端 IP 不可用时的占位地址
const DefaultClientIP = "127.0.0.1"

// Razorpay 回调签名头
const RazorpaySignatureHeader = "X-Razorpay-Signature"
