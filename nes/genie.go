package nes

import (
	"strings"

	"github.com/pkg/errors"
)

/*
Game Genie金手指。
6字母码改写一个地址的读取值，8字母码额外带一个比对值，
只有ROM原值等于比对值时才替换（用于多bank游戏）。

码面16个字母各编码一个nibble，按固定的位打散方式
拼出15bit地址、8bit替换值和可选的8bit比对值。
替换发生在CPU读$8000+时，不改ROM本身。
*/

const genieLetters = "APZLGITYEOXUKSVN"

type GenieCode struct {
	Addr   uint16 // 15bit，$8000起的偏移
	Value  byte
	Key    byte
	HasKey bool
}

type Genie struct {
	Enabled bool
	Codes   []GenieCode
}

func NewGenie() *Genie {
	return &Genie{}
}

func genieNibble(letter byte) (byte, error) {
	i := strings.IndexByte(genieLetters, letter)
	if i < 0 {
		return 0, errors.Errorf("game genie: invalid letter %q", string(letter))
	}
	return byte(i), nil
}

// 一个6或8字母的码解出地址/值/比对值
func DecodeGenie(code string) (GenieCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 6 && len(code) != 8 {
		return GenieCode{}, errors.Errorf("game genie: code %q must be 6 or 8 letters", code)
	}
	n := make([]byte, len(code))
	for i := 0; i < len(code); i++ {
		v, err := genieNibble(code[i])
		if err != nil {
			return GenieCode{}, err
		}
		n[i] = v
	}

	addr := uint16(n[3]&7)<<12 |
		uint16(n[5]&7)<<8 | uint16(n[4]&8)<<8 |
		uint16(n[2]&7)<<4 | uint16(n[1]&8)<<4 |
		uint16(n[4]&7) | uint16(n[3]&8)

	out := GenieCode{Addr: addr & 0x7fff}
	if len(code) == 6 {
		out.Value = (n[1]&7)<<4 | (n[0]&8)<<4 | n[0]&7 | n[5]&8
		return out, nil
	}
	out.Value = (n[1]&7)<<4 | (n[0]&8)<<4 | n[0]&7 | n[7]&8
	out.Key = (n[7]&7)<<4 | (n[6]&8)<<4 | n[6]&7 | n[5]&8
	out.HasKey = true
	return out, nil
}

// 解码的逆运算，round-trip用
func EncodeGenie(c GenieCode) string {
	var n [8]byte
	addr := c.Addr
	n[3] = byte(addr>>12)&7 | byte(addr)&8
	n[5] = byte(addr>>8) & 7
	n[4] = byte(addr>>8)&8 | byte(addr)&7
	n[2] = byte(addr>>4) & 7
	n[1] = byte(addr>>4)&8 | (c.Value>>4)&7
	n[0] = (c.Value>>4)&8 | c.Value&7

	length := 6
	if c.HasKey {
		length = 8
		n[7] = c.Value&8 | (c.Key>>4)&7
		n[6] = (c.Key>>4)&8 | c.Key&7
		n[5] |= c.Key & 8
		// 8字母码的标志位在n2的bit3
		n[2] |= 8
	} else {
		n[5] |= c.Value & 8
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		sb.WriteByte(genieLetters[n[i]])
	}
	return sb.String()
}

// 逐条登记，多个码用+或空白分隔
func (g *Genie) AddCodes(codes string) error {
	fields := strings.FieldsFunc(codes, func(r rune) bool {
		return r == '+' || r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	if len(fields) == 0 {
		return errors.New("game genie: no codes given")
	}
	for _, f := range fields {
		c, err := DecodeGenie(f)
		if err != nil {
			return err
		}
		g.Codes = append(g.Codes, c)
	}
	return nil
}

// CPU读$8000+的替换钩子，orig是ROM里的原值
func (g *Genie) Substitute(addr uint16, orig byte) byte {
	if !g.Enabled {
		return orig
	}
	masked := addr & 0x7fff
	for i := range g.Codes {
		c := &g.Codes[i]
		if c.Addr != masked {
			continue
		}
		if c.HasKey && orig != c.Key {
			continue
		}
		return c.Value
	}
	return orig
}
