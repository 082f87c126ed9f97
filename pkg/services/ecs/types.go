package ecs

// Region is one entry of DescribeRegions.
type Region struct {
	RegionID       string `json:"RegionId"`
	RegionEndpoint string `json:"RegionEndpoint"`
	LocalName      string `json:"LocalName"`
	Status         string `json:"Status,omitempty"`
}

// Regions is the reply of DescribeRegions.
type Regions struct {
	RequestID string `json:"RequestId"`
	Regions   struct {
		Region []Region `json:"Region"`
	} `json:"Regions"`
}

// Zone is one entry of DescribeZones.
type Zone struct {
	ZoneID                 string `json:"ZoneId"`
	LocalName              string `json:"LocalName"`
	ZoneType               string `json:"ZoneType,omitempty"`
	AvailableInstanceTypes struct {
		InstanceTypes []string `json:"InstanceTypes"`
	} `json:"AvailableInstanceTypes"`
	AvailableResourceCreation struct {
		ResourceTypes []string `json:"ResourceTypes"`
	} `json:"AvailableResourceCreation"`
	AvailableDiskCategories struct {
		DiskCategories []string `json:"DiskCategories"`
	} `json:"AvailableDiskCategories"`
}

// Zones is the reply of DescribeZones.
type Zones struct {
	RequestID string `json:"RequestId"`
	Zones     struct {
		Zone []Zone `json:"Zone"`
	} `json:"Zones"`
}

// SupportedResource is one resource value and its stock status.
type SupportedResource struct {
	Value          string `json:"Value"`
	Status         string `json:"Status"`
	StatusCategory string `json:"StatusCategory,omitempty"`
	Min            int    `json:"Min,omitempty"`
	Max            int    `json:"Max,omitempty"`
	Unit           string `json:"Unit,omitempty"`
}

// AvailableResource groups supported resources by type.
type AvailableResource struct {
	Type               string `json:"Type"`
	SupportedResources struct {
		SupportedResource []SupportedResource `json:"SupportedResource"`
	} `json:"SupportedResources"`
}

// AvailableZone is the per-zone availability used by DescribeAvailableResource
// and DescribeResourcesModification.
type AvailableZone struct {
	ZoneID             string `json:"ZoneId"`
	RegionID           string `json:"RegionId"`
	Status             string `json:"Status"`
	StatusCategory     string `json:"StatusCategory,omitempty"`
	AvailableResources struct {
		AvailableResource []AvailableResource `json:"AvailableResource"`
	} `json:"AvailableResources"`
}

// AvailableZones is the availability list. It is absent when nothing
// matches the query.
type AvailableZones struct {
	AvailableZone []AvailableZone `json:"AvailableZone"`
}

// AvailableResources is the reply of DescribeAvailableResource.
type AvailableResources struct {
	RequestID      string          `json:"RequestId"`
	AvailableZones *AvailableZones `json:"AvailableZones,omitempty"`
}

// ResourcesModification is the reply of DescribeResourcesModification.
type ResourcesModification struct {
	RequestID      string          `json:"RequestId"`
	AvailableZones *AvailableZones `json:"AvailableZones,omitempty"`
}

// AttributeValue is one value of an account attribute.
type AttributeValue struct {
	Value              any    `json:"Value"`
	Count              int    `json:"Count,omitempty"`
	ZoneID             string `json:"ZoneId,omitempty"`
	InstanceType       string `json:"InstanceType,omitempty"`
	InstanceChargeType string `json:"InstanceChargeType,omitempty"`
	DiskCategory       string `json:"DiskCategory,omitempty"`
	ExpiredTime        string `json:"ExpiredTime,omitempty"`
}

// AccountAttribute is a named account quota or privilege.
type AccountAttribute struct {
	AttributeName   string `json:"AttributeName"`
	AttributeValues struct {
		ValueItem []AttributeValue `json:"ValueItem"`
	} `json:"AttributeValues"`
}

// AccountAttributes is the reply of DescribeAccountAttributes.
type AccountAttributes struct {
	RequestID             string `json:"RequestId"`
	AccountAttributeItems struct {
		AccountAttributeItem []AccountAttribute `json:"AccountAttributeItem"`
	} `json:"AccountAttributeItems"`
}

// InstanceTypeSpec describes a recommended instance type.
type InstanceTypeSpec struct {
	InstanceType       string  `json:"InstanceType"`
	InstanceTypeFamily string  `json:"InstanceTypeFamily,omitempty"`
	Generation         string  `json:"Generation,omitempty"`
	Cores              int     `json:"Cores,omitempty"`
	Memory             float64 `json:"Memory,omitempty"`
	SupportIoOptimized string  `json:"SupportIoOptimized,omitempty"`
}

// Recommendation is one entry of DescribeRecommendInstanceType.
type Recommendation struct {
	RegionID           string           `json:"RegionId"`
	ZoneID             string           `json:"ZoneId,omitempty"`
	Scene              string           `json:"Scene,omitempty"`
	CommodityCode      string           `json:"CommodityCode,omitempty"`
	InstanceChargeType string           `json:"InstanceChargeType,omitempty"`
	NetworkType        string           `json:"NetworkType,omitempty"`
	Priority           int              `json:"Priority,omitempty"`
	InstanceType       InstanceTypeSpec `json:"InstanceType"`
}

// Recommendations is the reply of DescribeRecommendInstanceType.
type Recommendations struct {
	RequestID string `json:"RequestId"`
	Data      struct {
		RecommendInstanceType []Recommendation `json:"RecommendInstanceType"`
	} `json:"Data"`
}

// RunResult is the reply of RunInstances.
type RunResult struct {
	RequestID      string `json:"RequestId"`
	OrderID        string `json:"OrderId,omitempty"`
	TradePrice     any    `json:"TradePrice,omitempty"`
	InstanceIDSets struct {
		InstanceIDSet []string `json:"InstanceIdSet"`
	} `json:"InstanceIdSets"`
}

// InstanceResponse is the per-instance outcome of a batch operation.
type InstanceResponse struct {
	InstanceID     string `json:"InstanceId"`
	Code           string `json:"Code"`
	Message        string `json:"Message"`
	CurrentStatus  string `json:"CurrentStatus"`
	PreviousStatus string `json:"PreviousStatus"`
}

// BatchResult is the reply of StartInstances and StopInstances.
type BatchResult struct {
	RequestID         string `json:"RequestId"`
	InstanceResponses struct {
		InstanceResponse []InstanceResponse `json:"InstanceResponse"`
	} `json:"InstanceResponses"`
}

// Ack is the reply of operations that return only a request ID.
type Ack struct {
	RequestID string `json:"RequestId"`
}

// Page holds the paging fields shared by list replies.
type Page struct {
	TotalCount int `json:"TotalCount"`
	PageNumber int `json:"PageNumber"`
	PageSize   int `json:"PageSize"`
}

// InstanceStatus is one entry of DescribeInstanceStatus.
type InstanceStatus struct {
	InstanceID string `json:"InstanceId"`
	Status     string `json:"Status"`
}

// InstanceStatuses is the reply of DescribeInstanceStatus.
type InstanceStatuses struct {
	RequestID string `json:"RequestId"`
	Page
	InstanceStatuses struct {
		InstanceStatus []InstanceStatus `json:"InstanceStatus"`
	} `json:"InstanceStatuses"`
}

// IPAddresses is the provider's wrapper around an address list.
type IPAddresses struct {
	IPAddress []string `json:"IpAddress"`
}

// Instance is one entry of DescribeInstances.
type Instance struct {
	InstanceID         string      `json:"InstanceId"`
	InstanceName       string      `json:"InstanceName"`
	RegionID           string      `json:"RegionId"`
	ZoneID             string      `json:"ZoneId"`
	InstanceType       string      `json:"InstanceType"`
	Status             string      `json:"Status"`
	ImageID            string      `json:"ImageId,omitempty"`
	CPU                int         `json:"Cpu,omitempty"`
	Memory             int         `json:"Memory,omitempty"`
	OSName             string      `json:"OSName,omitempty"`
	InstanceChargeType string      `json:"InstanceChargeType,omitempty"`
	CreationTime       string      `json:"CreationTime,omitempty"`
	ExpiredTime        string      `json:"ExpiredTime,omitempty"`
	PublicIPAddress    IPAddresses `json:"PublicIpAddress"`
	VpcAttributes      struct {
		VpcID            string      `json:"VpcId"`
		VSwitchID        string      `json:"VSwitchId"`
		PrivateIPAddress IPAddresses `json:"PrivateIpAddress"`
	} `json:"VpcAttributes"`
}

// Instances is the reply of DescribeInstances.
type Instances struct {
	RequestID string `json:"RequestId"`
	Page
	NextToken string `json:"NextToken,omitempty"`
	Instances struct {
		Instance []Instance `json:"Instance"`
	} `json:"Instances"`
}
