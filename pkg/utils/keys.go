package utils

import "fmt"

// TokenReportKey 报告缓存只按 token 地址区分
func TokenReportKey(tokenAddress string) string {
	return fmt.Sprintf("token_report:report:%s", tokenAddress)
}

func ReferencePricesKey() string {
	return "token_report:prices:reference"
}
