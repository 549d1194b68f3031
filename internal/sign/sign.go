package sign

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

// SignatureField 保留签名字段名，参与计算时始终被剔除
const SignatureField = "sign"

var (
	ErrSignatureMissing = errors.New("signature field missing")
	ErrSignatureInvalid = errors.New("signature invalid")
)

// Content 构建待签名串
// 规则：
// 1. 剔除 sign 字段与空值字段
// 2. 按参数名 ASCII 码从小到大排序
// 3. 按 key=value 格式拼接，使用 & 连接（值不做 URL 编码）
// 4. 末尾追加 key=<secret>
func Content(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == SignatureField {
			continue
		}
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	pairs = append(pairs, "key="+secret)
	return strings.Join(pairs, "&")
}

// Sign 生成签名（MD5 大写十六进制）
func Sign(params map[string]string, secret string) string {
	sum := md5.Sum([]byte(Content(params, secret)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Attach 计算签名并写入 sign 字段
func Attach(params map[string]string, secret string) map[string]string {
	params[SignatureField] = Sign(params, secret)
	return params
}

// Verify 校验 sign 字段携带的签名
// 签名比对使用常数时间比较，避免回调验签被侧信道探测。
func Verify(params map[string]string, secret string) error {
	claimed, ok := params[SignatureField]
	if !ok || strings.TrimSpace(claimed) == "" {
		return ErrSignatureMissing
	}
	expected := Sign(params, secret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(claimed)) != 1 {
		return ErrSignatureInvalid
	}
	return nil
}
