/*
Package registry implements the Subnet Registry contract which is deployed
together with the Gateway contract.

Registry contract stores stake and lifecycle records of child subnets
registered under the current network, together with their outbound top-down
message buffers. All mutating methods can be invoked only by the Gateway
contract, which performs witness checks and value transfers before
delegating to the registry. Read methods are open.

A subnet record is created with Register once the minimum collateral is
reached and stays Active while it holds stake. Draining the stake with
ReleaseStake flips the record to Inactive; AddStake reactivates it. Kill
removes a record whose circulating supply has returned to zero and reports
the stake to refund.

CommitTopDown assigns consecutive nonces to messages targeted down into a
subnet and accumulates the carried value as the subnet's circulating supply.
ReleaseCircSupply decreases it when value travels back up.
*/
package registry

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'gatewayScriptHash' -> interop.Hash160
   script hash of the Gateway contract allowed to mutate records
 - 'networkRoute' -> std.Serialize([][]byte)
   route of the current network from the root down
 - 'minCollateral' -> int
   minimum collateral required to register a subnet
 - 'totalSubnets' -> int
   number of registered subnets
 - r<digest> -> std.Serialize(Subnet)
   subnet records keyed by the Sha256 digest of the subnet route
 - t<digest><nonce> -> std.Serialize(common.CrossMsg)
   buffered outbound top-down messages of a subnet, nonce is 8-byte
   big-endian so iteration order matches nonce order

# Sequencing
Contract assigns outbound top-down nonces itself, so every subnet buffer is
gapless by construction.
*/
