package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	"token-report/internal/reporter/model"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

// tradeParser 按字段名读取 trade-data 的平铺字段，记录第一个解析错误
type tradeParser struct {
	raw map[string]json.RawMessage
	err error
}

func (p *tradeParser) lookup(key string) (json.RawMessage, bool) {
	v, ok := p.raw[key]
	if !ok || len(v) == 0 || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (p *tradeParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("field %s: %w", key, err)
	}
}

// dec 字段缺失或为 null 时返回 nil
func (p *tradeParser) dec(format string, args ...model.Window) *decimal.Decimal {
	key := format
	if len(args) > 0 {
		key = fmt.Sprintf(format, args[0])
	}
	v, ok := p.lookup(key)
	if !ok {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(v); err != nil {
		p.fail(key, err)
		return nil
	}
	return &d
}

func (p *tradeParser) integer(key string) int64 {
	v, ok := p.lookup(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		// 部分字段偶尔以浮点形式返回
		var d decimal.Decimal
		if derr := d.UnmarshalJSON(v); derr != nil {
			p.fail(key, err)
			return 0
		}
		return d.IntPart()
	}
	return n
}

func (p *tradeParser) str(key string) string {
	v, ok := p.lookup(key)
	if !ok {
		return ""
	}
	var s string
	if err := sonic.Unmarshal(v, &s); err != nil {
		p.fail(key, err)
		return ""
	}
	return s
}
