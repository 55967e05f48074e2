package template

// floatPtr 返回浮点数的指针，用于声明取值区间
func floatPtr(v float64) *float64 {
	return &v
}

// SeedTemplates 返回内置的审核模板集合
// 在未配置外部模板存储时作为默认模板加载，也是种子工具写入存储的内容
func SeedTemplates() []Template {
	return []Template{
		{
			ID:   "illumina-ngs-v1",
			Name: "Illumina NGS v1",
			Fields: []Field{
				{
					Name: "Sample_ID", Type: FieldTypeString, Required: true,
					Category: "Sample Information",
					HelpText: "Unique identifier for each biological sample.",
					Match:    []string{"SampleID", "Sample"},
				},
				{
					Name: "Patient_ID", Type: FieldTypeString, Required: true,
					Category: "Sample Information",
					HelpText: "Identifier for the patient from whom the sample was derived.",
					Match:    []string{"PatientID", "PatientIdentifier"},
				},
				{
					Name: "Sample_Type", Type: FieldTypeEnum, Required: true,
					Category: "Sample Information",
					HelpText: "Type of biological sample (e.g., FFPE, Fresh Frozen, Blood).",
					Match:    []string{"MaterialType", "SampleType"},
				},
				{
					Name: "Collection_Date", Type: FieldTypeDate, Required: false,
					Category: "Sample Information",
					HelpText: "Date when the sample was collected.",
					Match:    []string{"DateCollected", "CollectionDate"},
				},
				{
					Name: "Concentration_ng_ul", Type: FieldTypeNumber, Required: false,
					Category: "Library & Sequencing",
					HelpText: "Concentration of the extracted nucleic acid in ng/µL.",
					Match:    []string{"DNA_Concentration", "Concentration"},
					Min:      floatPtr(1), Max: floatPtr(100),
				},
				{
					Name: "Library_ID", Type: FieldTypeString, Required: true,
					Category: "Library & Sequencing",
					HelpText: "Unique identifier for the sequencing library.",
					Match:    []string{"LibraryName", "LibraryID"},
				},
				{
					Name: "Sequencing_Platform", Type: FieldTypeString, Required: true,
					Category: "Library & Sequencing",
					HelpText: "The sequencing platform used (e.g., Illumina NovaSeq, 10x Genomics).",
					Match:    []string{"Platform"},
				},
				{
					Name: "Read_Length", Type: FieldTypeInteger, Required: false,
					Category: "Library & Sequencing",
					HelpText: "Length of the sequencing reads (e.g., 150bp).",
					Match:    []string{"ReadLength"},
					Min:      floatPtr(25), Max: floatPtr(600),
				},
				{
					Name: "Block_ID", Type: FieldTypeString, Required: false,
					Category: "Spatial Data",
					HelpText: "Identifier for the FFPE block, if applicable.",
					Match:    []string{"FFPE_Block", "BlockID"},
					LinkKey:  true,
				},
				{
					Name: "ROI_Name", Type: FieldTypeString, Required: false,
					Category: "Spatial Data",
					HelpText: "Name of the Region of Interest for spatial transcriptomics.",
					Match:    []string{"RegionOfInterest", "ROI"},
				},
			},
		},
		{
			ID:   "10x-single-cell-v1",
			Name: "10x Single-Cell v1",
			Fields: []Field{
				{
					Name: "Cell_Ranger_ID", Type: FieldTypeString, Required: true,
					Category: "10x Specific",
					HelpText: "Unique identifier for the Cell Ranger run.",
					Match:    []string{"CellRangerID"},
				},
				{
					Name: "Sample_ID", Type: FieldTypeString, Required: true,
					Category: "Sample Information",
					HelpText: "Unique identifier for each biological sample.",
					Match:    []string{"SampleID", "Sample_ID_10x"},
					LinkKey:  true,
				},
				{
					Name: "Chemistry_Version", Type: FieldTypeString, Required: true,
					Category: "10x Specific",
					HelpText: "10x Genomics chemistry version used.",
					Match:    []string{"Chemistry"},
				},
				{
					Name: "Number_of_Cells", Type: FieldTypeInteger, Required: false,
					Category: "10x Specific",
					HelpText: "Estimated number of cells recovered.",
					Match:    []string{"NumCells", "CellCount"},
					Min:      floatPtr(1),
				},
			},
		},
		{
			ID:   "geomx-spatial-v1",
			Name: "GeoMx Spatial v1",
			Fields: []Field{
				{
					Name: "Slide_ID", Type: FieldTypeString, Required: true,
					Category: "Spatial Data",
					HelpText: "Unique identifier for the GeoMx slide.",
					Match:    []string{"SlideID"},
				},
				{
					Name: "ROI_ID", Type: FieldTypeString, Required: true,
					Category: "Spatial Data",
					HelpText: "Unique identifier for the Region of Interest.",
					Match:    []string{"ROIID", "ROI"},
				},
				{
					Name: "Panel_Name", Type: FieldTypeString, Required: true,
					Category: "Spatial Data",
					HelpText: "Name of the GeoMx panel used.",
					Match:    []string{"Panel"},
				},
				{
					Name: "Area_um2", Type: FieldTypeNumber, Required: false,
					Category: "Spatial Data",
					HelpText: "Area of the ROI in square micrometers.",
					Match:    []string{"Area"},
					Min:      floatPtr(0),
				},
			},
		},
	}
}
