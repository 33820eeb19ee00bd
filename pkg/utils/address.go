package utils

import (
	"regexp"

	"github.com/gagliardetto/solana-go"
)

// base58 alphabet, 32-44 chars
var tokenAddressPattern = regexp.MustCompile(`\b[1-9A-HJ-NP-Za-km-z]{32,44}\b`)

// IsTokenAddress 是否为合法的 Solana 公钥
func IsTokenAddress(s string) bool {
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}

// ExtractTokenAddress 从自由文本中取第一个合法地址。
// 若所有候选都无法解码为公钥，退回第一个候选。
func ExtractTokenAddress(text string) (string, bool) {
	candidates := tokenAddressPattern.FindAllString(text, -1)
	if len(candidates) == 0 {
		return "", false
	}
	for _, c := range candidates {
		if IsTokenAddress(c) {
			return c, true
		}
	}
	return candidates[0], true
}
