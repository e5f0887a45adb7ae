package facematch

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// Client matches and enrolls faces using Amazon Rekognition collections.
type Client struct {
	api          *rekognition.Client
	collectionID string
	threshold    float32
}

// NewClient creates a face-matching client bound to one collection.
func NewClient(cfg aws.Config, collectionID string, threshold float32) *Client {
	return &Client{
		api:          rekognition.NewFromConfig(cfg),
		collectionID: collectionID,
		threshold:    threshold,
	}
}

// SearchByImage submits an image to the collection and returns the single
// best match above the similarity threshold. A nil match with a nil error
// means no enrolled face cleared the threshold; that is an expected outcome,
// not a failure. Oversized images are downscaled before submission.
func (c *Client) SearchByImage(ctx context.Context, image []byte) (*Match, error) {
	image, err := ResizeImage(image, MaxImageDim)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	out, err := c.api.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(c.collectionID),
		Image:              &types.Image{Bytes: image},
		MaxFaces:           aws.Int32(1),
		FaceMatchThreshold: aws.Float32(c.threshold),
	})
	if err != nil {
		// The service reports an image without any detectable face as an
		// invalid parameter, which for this workflow is just "no match".
		var invalid *types.InvalidParameterException
		if errors.As(err, &invalid) {
			return nil, nil
		}
		return nil, fmt.Errorf("searching collection %s: %w", c.collectionID, err)
	}

	if len(out.FaceMatches) == 0 {
		return nil, nil
	}

	best := out.FaceMatches[0]
	match := &Match{
		Confidence: aws.ToFloat32(best.Similarity),
	}
	if best.Face != nil {
		match.EmployeeID = aws.ToString(best.Face.ExternalImageId)
		match.FaceID = aws.ToString(best.Face.FaceId)
	}
	if match.EmployeeID == "" {
		match.EmployeeID = "Unknown"
	}
	return match, nil
}

// IndexFace enrolls the face stored at bucket/key into the collection with
// the employee ID as its external identifier. Returns the service-assigned
// face ID.
func (c *Client) IndexFace(ctx context.Context, bucket, key, employeeID string) (string, error) {
	out, err := c.api.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId: aws.String(c.collectionID),
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
		ExternalImageId: aws.String(employeeID),
		MaxFaces:        aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("indexing face for %s: %w", employeeID, err)
	}

	if len(out.FaceRecords) == 0 || out.FaceRecords[0].Face == nil {
		return "", fmt.Errorf("no face detected in %s/%s", bucket, key)
	}

	return aws.ToString(out.FaceRecords[0].Face.FaceId), nil
}
