/*
Package gateway implements the Gateway contract, the public surface of the
hierarchical subnet coordination suite.

Gateway contract owns every witness check and every GAS movement of the
suite and delegates subnet bookkeeping to the Registry contract. Subnet
owners register, stake and kill their subnets through it; plain accounts
fund descendant subnets and release value back to the parent; arbitrary
cross-network messages are classified against the current network and
committed either down through the registry or up into the checkpoint of the
current window.

Top-down finality is driven by a weighted validator set managed by
committee. Validators vote for serialized checkpoints of epochs on the
period lattice; once one digest collects more than the majority share of
the total weight, the checkpoint is executed if its epoch directly follows
the last executed one and queued otherwise. Execution enforces the gapless
top-down nonce sequence, dispatches messages addressed to the current
network and parks transit ones in the postbox, where whitelisted owners pay
the fee to propagate them further.

# Contract notifications

Deposit notification. Produced when GAS is attached to the contract account
outside of its own operations.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

SubnetRegistered notification. Produced when a subnet record is created.

	SubnetRegistered:
	  - name: owner
	    type: Hash160
	  - name: digest
	    type: ByteArray
	  - name: stake
	    type: Integer

StakeAdded and StakeReleased notifications. Produced on collateral changes.

	StakeAdded:
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer

	StakeReleased:
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer

SubnetKilled notification. Produced when a subnet record is removed.

	SubnetKilled:
	  - name: owner
	    type: Hash160
	  - name: refund
	    type: Integer

MembershipUpdated notification. Produced when committee replaces the
validator set.

	MembershipUpdated:
	  - name: size
	    type: Integer
	  - name: totalWeight
	    type: Integer

Funded, Released and CrossMsgCommitted notifications. Produced when cross
messages enter the system.

	Funded:
	  - name: signer
	    type: Hash160
	  - name: route
	    type: Array
	  - name: value
	    type: Integer
	  - name: nonce
	    type: Integer

	Released:
	  - name: signer
	    type: Hash160
	  - name: value
	    type: Integer
	  - name: nonce
	    type: Integer

	CrossMsgCommitted:
	  - name: route
	    type: Array
	  - name: nonce
	    type: Integer
	  - name: bottomUp
	    type: Boolean

CheckpointExecuted and CheckpointQueued notifications. Produced when a
top-down checkpoint reaches consensus.

	CheckpointExecuted:
	  - name: epoch
	    type: Integer

	CheckpointQueued:
	  - name: epoch
	    type: Integer

BottomUpCheckpointCommitted notification. Produced when a child checkpoint
is folded into the current window.

	BottomUpCheckpointCommitted:
	  - name: route
	    type: Array
	  - name: epoch
	    type: Integer

MessageParked, MessagePropagated and DispatchFailed notifications. Produced
by the postbox and the dispatch loop.

	MessageParked:
	  - name: id
	    type: Hash256

	MessagePropagated:
	  - name: id
	    type: ByteArray

	DispatchFailed:
	  - name: to
	    type: Hash160
	  - name: nonce
	    type: Integer
*/
package gateway

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'registryScriptHash' -> interop.Hash160
   script hash of the Registry contract
 - 'networkRoute' -> std.Serialize([][]byte)
   route of the current network from the root down
 - 'totalValidatorWeight' -> int
   summed weight of the validator set
 - 'bottomUpNonce' -> int
   next global nonce for messages travelling up
 - 'appliedTopDownNonce' -> int
   nonce the next applied top-down message must carry
 - 'prevBottomUpDigest' -> []byte
   digest of the latest window checkpoint, chained into the next one
 - 'dispatchLock' -> int
   present only while dispatched payloads run
 - 'config' + name -> int
   configuration values, see gatewayconst keys
 - m<interop.PublicKey> -> int
   weight of a validator set member
 - b<epoch> -> std.Serialize(common.BottomUpCheckpoint)
   accumulated window checkpoints, epoch is 8-byte big-endian
 - e<epoch> -> []byte
   finalized top-down checkpoints awaiting their turn in the executable
   queue
 - p<interop.Hash256> -> std.Serialize(PostboxItem)
   parked transit messages keyed by the digest of their serialized form
 - c<digest> -> interop.Hash256
   digest of the last committed checkpoint of a child subnet
 - 'v'/'q'/'lastExecutedEpoch' keys of the voting engine, see common/vote.go

# Finality
Top-down checkpoints are executed strictly in epoch order. The applied
top-down nonce is gapless across executions; a checkpoint breaking the
sequence aborts atomically and leaves the vote record intact.
*/
