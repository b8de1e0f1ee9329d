package scopedstring

import (
	"encoding/binary"

	"lukechampine.com/uint128"
)

// / 64-bit content fingerprint in the rapidhash family.  The lazy 32-bit
// / Hash on a view is the cheap per-instance cache; this one is for stores
// / and indexes that want a full word of bits.

// RAPID_SEED 是默认种子
const RAPID_SEED uint64 = 0xbdd89aa982704029

// rapid_secret 是默认的密钥参数
var rapid_secret = [3]uint64{0x2d358dccaa6c78a5, 0x8bb84b93962eacc9, 0x4b33a62ed433d4a3}

// / When protected mode is on the multiply folds back into its inputs
// / instead of replacing them, trading speed for blinding.
var RAPIDHASH_PROTECTED = false

// rapid_mum 实现 64*64 -> 128 位乘法
func rapid_mum(a, b *uint64) {
	r := uint128.From64(*a).Mul(uint128.From64(*b))
	if RAPIDHASH_PROTECTED {
		*a ^= r.Lo
		*b ^= r.Hi
	} else {
		*a = r.Lo
		*b = r.Hi
	}
}

func rapid_mix(a, b uint64) uint64 {
	rapid_mum(&a, &b)
	return a ^ b
}

func rapid_read64(p []byte) uint64 {
	return binary.LittleEndian.Uint64(p)
}

func rapid_read32(p []byte) uint64 {
	return uint64(binary.LittleEndian.Uint32(p))
}

// rapid_readSmall 读取并组合 1 到 3 个字节
func rapid_readSmall(p []byte, k int) uint64 {
	return uint64(p[0])<<56 | uint64(p[k>>1])<<32 | uint64(p[k-1])
}

func rapidhash_internal(key []byte, len int, seed uint64, secret [3]uint64) uint64 {
	p := key
	seed ^= rapid_mix(seed^secret[0], secret[1]) ^ uint64(len)
	var a, b uint64

	if len <= 16 {
		if len >= 4 {
			plast := p[len-4:]
			a = rapid_read32(p)<<32 | rapid_read32(plast)
			delta := (len & 24) >> (len >> 3)
			b = rapid_read32(p[delta:])<<32 | rapid_read32(p[len-4-delta:])
		} else if len > 0 {
			a = rapid_readSmall(p, len)
		}
	} else {
		i := len
		if i > 48 {
			see1 := seed
			see2 := seed
			for i >= 48 {
				seed = rapid_mix(rapid_read64(p)^secret[0], rapid_read64(p[8:])^seed)
				see1 = rapid_mix(rapid_read64(p[16:])^secret[1], rapid_read64(p[24:])^see1)
				see2 = rapid_mix(rapid_read64(p[32:])^secret[2], rapid_read64(p[40:])^see2)
				p = p[48:]
				i -= 48
			}
			seed ^= see1 ^ see2
		}
		if i > 16 {
			seed = rapid_mix(rapid_read64(p)^secret[2], rapid_read64(p[8:])^seed^secret[1])
			if i > 32 {
				seed = rapid_mix(rapid_read64(p[16:])^secret[2], rapid_read64(p[24:])^seed)
			}
		}
		// The final words always come from the tail of the whole key, even
		// when the block loop consumed everything up to it.
		a = rapid_read64(key[len-16:])
		b = rapid_read64(key[len-8:])
	}
	a ^= secret[1]
	b ^= seed
	rapid_mum(&a, &b)
	return rapid_mix(a^secret[0]^uint64(len), b^secret[1])
}

// / Rapidhash64 hashes b with the default seed.
func Rapidhash64(b []byte) uint64 {
	return rapidhash_internal(b, len(b), RAPID_SEED, rapid_secret)
}

// / Rapidhash64Seed hashes b with a caller-chosen seed.
func Rapidhash64Seed(b []byte, seed uint64) uint64 {
	return rapidhash_internal(b, len(b), seed, rapid_secret)
}
