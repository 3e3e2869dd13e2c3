package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

// SubnetID locates a subnet in the hierarchy as the route of subnet actor
// account hashes walked from the root network down. The root network is the
// empty route. Two IDs denote the same subnet iff their structural digests
// are equal; route slices must never be compared by reference.
type SubnetID struct {
	Route [][]byte
}

const (
	// ErrInvalidRoute is thrown when a subnet route contains a hop of a
	// wrong length or visits the same actor twice.
	ErrInvalidRoute = "invalid subnet route"
)

// RootSubnetID returns the ID of the root network.
func RootSubnetID() SubnetID {
	return SubnetID{Route: [][]byte{}}
}

// CheckRoute validates route hop lengths and the all-hops-distinct invariant.
// It panics with ErrInvalidRoute on violation.
func CheckRoute(id SubnetID) {
	for i := 0; i < len(id.Route); i++ {
		if len(id.Route[i]) != interop.Hash160Len {
			panic(ErrInvalidRoute)
		}
		for j := 0; j < i; j++ {
			if BytesEqual(id.Route[i], id.Route[j]) {
				panic(ErrInvalidRoute)
			}
		}
	}
}

// SubnetIDDigest returns the structural digest of a subnet ID: SHA-256 over
// the canonical serialization of its route.
func SubnetIDDigest(id SubnetID) []byte {
	return crypto.Sha256(std.Serialize(id.Route))
}

// ChildSubnetID appends one hop to the parent route.
func ChildSubnetID(parent SubnetID, actor interop.Hash160) SubnetID {
	route := [][]byte{}
	for i := 0; i < len(parent.Route); i++ {
		route = append(route, parent.Route[i])
	}
	route = append(route, actor)
	return SubnetID{Route: route}
}

// ParentSubnetID drops the last hop of the route. It panics for the root
// network, which has no parent.
func ParentSubnetID(id SubnetID) SubnetID {
	if len(id.Route) == 0 {
		panic("root network has no parent")
	}
	route := [][]byte{}
	for i := 0; i < len(id.Route)-1; i++ {
		route = append(route, id.Route[i])
	}
	return SubnetID{Route: route}
}

// SubnetIDEqual reports structural equality of two subnet IDs.
func SubnetIDEqual(a, b SubnetID) bool {
	return BytesEqual(SubnetIDDigest(a), SubnetIDDigest(b))
}

// CommonParentSubnet returns the longest shared route prefix of a and b.
func CommonParentSubnet(a, b SubnetID) SubnetID {
	route := [][]byte{}
	n := len(a.Route)
	if len(b.Route) < n {
		n = len(b.Route)
	}
	for i := 0; i < n; i++ {
		if !BytesEqual(a.Route[i], b.Route[i]) {
			break
		}
		route = append(route, a.Route[i])
	}
	return SubnetID{Route: route}
}

// IsStrictAncestorSubnet reports whether a is a strict route prefix of b.
func IsStrictAncestorSubnet(a, b SubnetID) bool {
	if len(a.Route) >= len(b.Route) {
		return false
	}
	for i := 0; i < len(a.Route); i++ {
		if !BytesEqual(a.Route[i], b.Route[i]) {
			return false
		}
	}
	return true
}

// NextHopSubnet returns the ID of the direct child of from on the route
// toward target. It panics unless from is a strict ancestor of target.
func NextHopSubnet(from, target SubnetID) SubnetID {
	if !IsStrictAncestorSubnet(from, target) {
		panic("no down route between subnets")
	}
	return ChildSubnetID(from, target.Route[len(from.Route)])
}
